package core

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeParams decodes params into out, a pointer to a struct tagged with
// `mapstructure` keys. String values are coerced ("3" -> 3, "2s" -> 2*time.Second,
// "a,b" -> []string{"a", "b"}). A decoded slice or map replaces the value
// already in out rather than merging into it.
func DecodeParams(params Params, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ZeroFields:       true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(params)); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}
	return nil
}
