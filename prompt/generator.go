// Package prompt renders format instructions that ask a model to answer with
// a value shaped like a Go struct.
package prompt

import (
	"fmt"
	"reflect"
	"strings"
)

// field is one exported struct field as it should appear in model output.
type field struct {
	name        string
	description string
	kind        reflect.Kind
	elem        reflect.Kind // element kind for slices
	children    []field      // struct fields, or struct element fields for slices
}

// GenerateStructuredPrompt creates an instruction prompt for producing a value of type T.
// Structs carrying yaml tags are requested as YAML, others as JSON. The
// description struct tag is included in the field list.
func GenerateStructuredPrompt[T any]() string {
	t := derefType(reflect.TypeOf((*T)(nil)).Elem())
	if t.Kind() != reflect.Struct {
		return fmt.Sprintf("Please format the output as a valid %s value.", t.Kind())
	}

	useYAML := hasYamlTags(t)
	fields := collectFields(t, useYAML)

	var b strings.Builder
	b.WriteString("Please analyze the provided data and extract information in the following structured format:\n\n")
	if useYAML {
		b.WriteString("Output the result in YAML format with the following structure:\n\n```yaml\n")
		writeYAML(&b, fields, 0)
	} else {
		b.WriteString("Output the result in JSON format with the following structure:\n\n```json\n")
		writeJSON(&b, fields, 0)
		b.WriteString("\n")
	}
	b.WriteString("```\n\nField descriptions:\n")
	writeDescriptions(&b, fields, "")
	b.WriteString("\nEnsure all fields are filled from the available data. If a field cannot be determined, use an empty or zero value.")
	return b.String()
}

// ValidateStructForPrompt reports whether T can be described by GenerateStructuredPrompt.
func ValidateStructForPrompt[T any]() error {
	t := derefType(reflect.TypeOf((*T)(nil)).Elem())
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("type %s is not a struct", t.String())
	}
	return validateTags(t, "")
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func hasYamlTags(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if _, ok := f.Tag.Lookup("yaml"); ok {
			return true
		}
		if ft := derefType(f.Type); ft.Kind() == reflect.Struct && hasYamlTags(ft) {
			return true
		}
	}
	return false
}

func collectFields(t reflect.Type, useYAML bool) []field {
	var fields []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := fieldName(sf, useYAML)
		if name == "-" {
			continue
		}

		ft := derefType(sf.Type)
		f := field{
			name:        name,
			description: sf.Tag.Get("description"),
			kind:        ft.Kind(),
		}
		if f.description == "" {
			f.description = fmt.Sprintf("Field of type %s", sf.Type.String())
		}

		switch ft.Kind() {
		case reflect.Struct:
			f.children = collectFields(ft, useYAML)
		case reflect.Slice, reflect.Array:
			et := derefType(ft.Elem())
			f.elem = et.Kind()
			if et.Kind() == reflect.Struct {
				f.children = collectFields(et, useYAML)
			}
		}
		fields = append(fields, f)
	}
	return fields
}

// fieldName picks the tag name for the output format, falling back to the
// decoder's default naming for that format.
func fieldName(sf reflect.StructField, useYAML bool) string {
	tag := "json"
	if useYAML {
		tag = "yaml"
	}
	if name, _, _ := strings.Cut(sf.Tag.Get(tag), ","); name != "" {
		return name
	}
	if useYAML {
		return strings.ToLower(sf.Name)
	}
	return sf.Name
}

func writeYAML(b *strings.Builder, fields []field, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, f := range fields {
		switch {
		case f.kind == reflect.Struct:
			fmt.Fprintf(b, "%s%s:\n", pad, f.name)
			writeYAML(b, f.children, indent+1)
		case f.children != nil:
			fmt.Fprintf(b, "%s%s:\n%s  -\n", pad, f.name, pad)
			writeYAML(b, f.children, indent+2)
		case f.kind == reflect.Slice || f.kind == reflect.Array:
			fmt.Fprintf(b, "%s%s: [] # array of %s\n", pad, f.name, f.elem)
		default:
			fmt.Fprintf(b, "%s%s: \"\" # %s\n", pad, f.name, f.kind)
		}
	}
}

func writeJSON(b *strings.Builder, fields []field, indent int) {
	pad := strings.Repeat("  ", indent)
	b.WriteString("{\n")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(b, "%s  %q: ", pad, f.name)
		switch {
		case f.kind == reflect.Struct:
			writeJSON(b, f.children, indent+1)
		case f.children != nil:
			fmt.Fprintf(b, "[\n%s    ", pad)
			writeJSON(b, f.children, indent+2)
			fmt.Fprintf(b, "\n%s  ]", pad)
		default:
			b.WriteString(jsonZero(f.kind))
		}
	}
	fmt.Fprintf(b, "\n%s}", pad)
}

func jsonZero(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return `""`
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "0"
	case reflect.Float32, reflect.Float64:
		return "0.0"
	case reflect.Bool:
		return "false"
	case reflect.Slice, reflect.Array:
		return "[]"
	case reflect.Map:
		return "{}"
	default:
		return "null"
	}
}

func writeDescriptions(b *strings.Builder, fields []field, prefix string) {
	for _, f := range fields {
		path := f.name
		if prefix != "" {
			path = prefix + "." + f.name
		}
		fmt.Fprintf(b, "- %s: %s\n", path, f.description)
		if f.kind == reflect.Struct {
			writeDescriptions(b, f.children, path)
		} else if f.children != nil {
			writeDescriptions(b, f.children, path+"[]")
		}
	}
}

func validateTags(t reflect.Type, prefix string) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		path := sf.Name
		if prefix != "" {
			path = prefix + "." + sf.Name
		}

		if name, _, _ := strings.Cut(sf.Tag.Get("yaml"), ","); strings.Contains(name, " ") {
			return fmt.Errorf("invalid yaml tag for field %s: field name cannot contain spaces", path)
		}

		ft := derefType(sf.Type)
		if ft.Kind() == reflect.Slice || ft.Kind() == reflect.Array {
			ft = derefType(ft.Elem())
			path += "[]"
		}
		if ft.Kind() == reflect.Struct {
			if err := validateTags(ft, path); err != nil {
				return err
			}
		}
	}
	return nil
}
