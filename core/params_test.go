package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summarizeParams struct {
	Model     string        `mapstructure:"model"`
	MaxWords  int           `mapstructure:"max_words"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Streaming bool          `mapstructure:"streaming"`
}

func TestDecodeParams(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		expected summarizeParams
	}{
		{
			name:     "native types",
			params:   Params{"model": "small", "max_words": 50, "timeout": 2 * time.Second, "streaming": true},
			expected: summarizeParams{Model: "small", MaxWords: 50, Timeout: 2 * time.Second, Streaming: true},
		},
		{
			name:     "string values are coerced",
			params:   Params{"model": "large", "max_words": "120", "timeout": "1m30s", "streaming": "true"},
			expected: summarizeParams{Model: "large", MaxWords: 120, Timeout: 90 * time.Second, Streaming: true},
		},
		{
			name:     "missing keys keep zero values",
			params:   Params{"model": "tiny"},
			expected: summarizeParams{Model: "tiny"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got summarizeParams
			require.NoError(t, DecodeParams(tt.params, &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeParams_Invalid(t *testing.T) {
	var got summarizeParams
	err := DecodeParams(Params{"max_words": "many"}, &got)
	assert.ErrorContains(t, err, "failed to decode params")
}

func TestDecodeParams_FromNode(t *testing.T) {
	node := NewFunc(FuncNode[string, string]{}, WithParams(Params{"model": "small", "max_words": 10}))

	var got summarizeParams
	require.NoError(t, DecodeParams(node.Params(), &got))
	assert.Equal(t, "small", got.Model)
	assert.Equal(t, 10, got.MaxWords)
}

func TestDecodeParams_CommaSeparatedSlice(t *testing.T) {
	var out struct {
		Items []int    `mapstructure:"items"`
		Tags  []string `mapstructure:"tags"`
	}
	require.NoError(t, DecodeParams(Params{"items": "1,2,3", "tags": []string{"a"}}, &out))
	assert.Equal(t, []int{1, 2, 3}, out.Items)
	assert.Equal(t, []string{"a"}, out.Tags)
}

func TestDecodeParams_SliceReplacesDefault(t *testing.T) {
	out := struct {
		Items []int `mapstructure:"items"`
	}{Items: []int{1, 2, 3, 4, 5}}
	require.NoError(t, DecodeParams(Params{"items": "7,8"}, &out))
	assert.Equal(t, []int{7, 8}, out.Items)
}
