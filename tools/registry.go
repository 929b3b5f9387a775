package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/alt-coder/pocketgraph/llm"
	"github.com/mitchellh/mapstructure"
)

// Registry holds local tools backed by Go functions.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]localTool
}

type localTool struct {
	spec   llm.ToolSpec
	invoke func(ctx context.Context, args map[string]any) (string, error)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]localTool)}
}

// Register adds a typed tool. In must be a struct; its json names, description,
// default and enum tags shape the advertised schema. Non-pointer fields without
// a default are required. A string Out is returned verbatim, anything else as JSON.
func Register[In, Out any](r *Registry, name, description string, fn func(ctx context.Context, in In) (Out, error)) error {
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("tool handler cannot be nil")
	}

	inType := reflect.TypeOf((*In)(nil)).Elem()
	if inType.Kind() != reflect.Struct {
		return fmt.Errorf("tool %s: input must be a struct, got %s", name, inType)
	}
	params := describeStruct(inType)

	tool := localTool{
		spec: llm.ToolSpec{
			Name:        name,
			Description: description,
			Parameters:  params.schema(),
		},
		invoke: func(ctx context.Context, args map[string]any) (string, error) {
			var in In
			if err := params.decode(args, &in); err != nil {
				return "", err
			}
			out, err := fn(ctx, in)
			if err != nil {
				return "", err
			}
			if s, ok := any(out).(string); ok {
				return s, nil
			}
			b, err := json.Marshal(out)
			if err != nil {
				return "", fmt.Errorf("failed to marshal result: %w", err)
			}
			return string(b), nil
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = tool
	return nil
}

// Specs returns the registered tool specs sorted by name.
func (r *Registry) Specs() []llm.ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]llm.ToolSpec, 0, len(r.tools))
	for _, t := range r.tools {
		specs = append(specs, t.spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// Execute runs a local tool.
func (r *Registry) Execute(ctx context.Context, call llm.ToolCall) (llm.ToolResult, error) {
	r.mu.RLock()
	tool, ok := r.tools[call.Name]
	r.mu.RUnlock()
	if !ok {
		return notFound(call), nil
	}

	content, err := tool.invoke(ctx, call.Args)
	if err != nil {
		return errorResult(call, fmt.Sprintf("tool execution failed: %v", err)), nil
	}
	return llm.ToolResult{CallID: call.ID, Name: call.Name, Content: content}, nil
}

type param struct {
	name        string
	typ         string
	description string
	required    bool
	def         string
	enum        []string
}

type paramSet []param

func describeStruct(t reflect.Type) paramSet {
	var params paramSet
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}

		p := param{
			name:        name,
			typ:         jsonType(f.Type),
			description: f.Tag.Get("description"),
			def:         f.Tag.Get("default"),
		}
		p.required = f.Type.Kind() != reflect.Ptr && p.def == ""
		if enum := f.Tag.Get("enum"); enum != "" {
			for _, v := range strings.Split(enum, ",") {
				p.enum = append(p.enum, strings.TrimSpace(v))
			}
		}
		params = append(params, p)
	}
	return params
}

func (ps paramSet) schema() map[string]any {
	props := make(map[string]any, len(ps))
	required := []string{}
	for _, p := range ps {
		prop := map[string]any{"type": p.typ}
		if p.description != "" {
			prop["description"] = p.description
		}
		if len(p.enum) > 0 {
			prop["enum"] = p.enum
		}
		if p.def != "" {
			prop["default"] = p.def
		}
		props[p.name] = prop
		if p.required {
			required = append(required, p.name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// decode checks required and enum constraints, fills defaults and decodes
// args into out with weak typing so "3" and 3.0 both fill an int.
func (ps paramSet) decode(args map[string]any, out any) error {
	input := make(map[string]any, len(args)+len(ps))
	for k, v := range args {
		input[k] = v
	}

	for _, p := range ps {
		v, ok := input[p.name]
		switch {
		case !ok && p.def != "":
			input[p.name] = p.def
		case !ok && p.required:
			return fmt.Errorf("required parameter '%s' is missing", p.name)
		case ok && len(p.enum) > 0:
			s := fmt.Sprintf("%v", v)
			valid := false
			for _, e := range p.enum {
				if e == s {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("parameter '%s' value '%v' is not in allowed enum values: %v", p.name, v, p.enum)
			}
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create argument decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	return nil
}

func jsonType(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
