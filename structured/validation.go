package structured

import "fmt"

// Validator checks a decoded value.
type Validator[T any] interface {
	Validate(data *T) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[T any] func(data *T) error

// Validate calls f.
func (f ValidatorFunc[T]) Validate(data *T) error {
	return f(data)
}

// NoOpValidator accepts any non-nil value.
type NoOpValidator[T any] struct{}

// Validate implements Validator.
func (NoOpValidator[T]) Validate(data *T) error {
	if data == nil {
		return fmt.Errorf("data cannot be nil")
	}
	return nil
}

// ParseAndValidate decodes response and runs v on the result. A nil v uses NoOpValidator.
func ParseAndValidate[T any](response string, v Validator[T]) (*T, error) {
	out, err := Parse[T](response)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = NoOpValidator[T]{}
	}
	if err := v.Validate(out); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return out, nil
}
