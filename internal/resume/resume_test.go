package resume

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alt-coder/pocketgraph/core"
	"github.com/alt-coder/pocketgraph/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reply = "```yaml\n" + `name: Jane Doe
email: jane@example.com
experience:
  - title: Sales Manager
    company: Acme
skill_indexes: [0, 2]
` + "```"

func TestValidator(t *testing.T) {
	v := Validator{SkillCount: 3}
	valid := Data{Name: "Jane", Email: "jane@example.com", SkillIndexes: []int{0, 2}}
	require.NoError(t, v.Validate(&valid))

	tests := []struct {
		name   string
		mutate func(*Data)
		want   string
	}{
		{"missing name", func(d *Data) { d.Name = " " }, "name is required"},
		{"missing email", func(d *Data) { d.Email = "" }, "email is required"},
		{"bad email", func(d *Data) { d.Email = "jane@" }, "not a valid address"},
		{"index out of range", func(d *Data) { d.SkillIndexes = []int{3} }, "skill_indexes[0] = 3"},
		{"negative index", func(d *Data) { d.SkillIndexes = []int{-1} }, "skill_indexes[0] = -1"},
		{"incomplete experience", func(d *Data) { d.Experience = []Experience{{Title: "Dev"}} }, "experience[0].company"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			assert.ErrorContains(t, v.Validate(&d), tt.want)
		})
	}

	assert.Error(t, v.Validate(nil))
}

func TestFlow_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe, sales manager at Acme."), 0o600))

	provider := llm.NewMockProvider("mock", reply)
	shared := core.Shared{KeyPath: path}
	action, err := NewFlow(provider, []string{"Leadership", "Python", "CRM"}).Run(context.Background(), shared)
	require.NoError(t, err)

	assert.Equal(t, core.ActionSuccess, action)
	data, ok := core.Get[*Data](shared, KeyData)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", data.Name)
	assert.Equal(t, []Experience{{Title: "Sales Manager", Company: "Acme"}}, data.Experience)
	assert.Equal(t, []string{"Leadership", "CRM"}, shared[KeyMatched])

	sent := provider.LastMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Content, "Jane Doe, sales manager at Acme.")
	assert.Contains(t, sent[0].Content, "2: CRM")
}

func TestFlow_RetriesInvalidReply(t *testing.T) {
	provider := llm.NewMockProvider("mock", "name: Jane\nemail: nope\n", reply)
	shared := core.Shared{KeyText: "Jane's resume"}

	_, err := NewFlow(provider, nil, core.WithMaxRetries(2)).Run(context.Background(), shared)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.CallCount())
	assert.Equal(t, []string{DefaultSkills[0], DefaultSkills[2]}, shared[KeyMatched])
}

func TestFlow_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		shared := core.Shared{KeyPath: filepath.Join(t.TempDir(), "nope.txt")}
		_, err := NewFlow(llm.NewMockProvider("mock", reply), nil).Run(context.Background(), shared)

		var nodeErr *core.NodeError
		require.ErrorAs(t, err, &nodeErr)
		assert.Equal(t, "load", nodeErr.Node)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid after retries", func(t *testing.T) {
		shared := core.Shared{KeyText: "text"}
		_, err := NewFlow(llm.NewMockProvider("mock", "name: Jane\n"), nil).Run(context.Background(), shared)

		var nodeErr *core.NodeError
		require.True(t, errors.As(err, &nodeErr))
		assert.Equal(t, "extract", nodeErr.Node)
		assert.ErrorContains(t, err, "email is required")
		assert.NotContains(t, shared, KeyMatched)
	})
}
