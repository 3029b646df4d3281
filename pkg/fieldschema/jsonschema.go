package fieldschema

import "github.com/invopop/jsonschema"

// PayloadSchema describes the saved payload as a JSON Schema document so
// embedding services can validate what the controller emits. Unset integers
// are serialised as null.
func PayloadSchema(s *Schema) *jsonschema.Schema {
	root := &jsonschema.Schema{
		Version:              jsonschema.Version,
		Type:                 "object",
		Properties:           jsonschema.NewProperties(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
	for _, field := range s.Fields() {
		prop := fieldSchema(field)
		root.Properties.Set(field.Name, prop)
		// Every key is always present; Required here means "present", not "chosen".
		root.Required = append(root.Required, field.Name)
	}
	return root
}

func fieldSchema(field Field) *jsonschema.Schema {
	var prop *jsonschema.Schema
	switch field.Type {
	case TypeText:
		prop = &jsonschema.Schema{Type: "string"}
		if field.MinLength > 0 {
			n := uint64(field.MinLength)
			prop.MinLength = &n
		}
		if field.MaxLength > 0 {
			n := uint64(field.MaxLength)
			prop.MaxLength = &n
		}
		if field.Pattern != "" {
			prop.Pattern = "^(?:" + field.Pattern + ")$"
		}
	case TypeInteger:
		prop = &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{
				{Type: "integer"},
				{Type: "null"},
			},
		}
	case TypeBoolean:
		prop = &jsonschema.Schema{Type: "boolean"}
	case TypeIntegerList:
		prop = &jsonschema.Schema{
			Type:        "array",
			Items:       &jsonschema.Schema{Type: "integer"},
			UniqueItems: true,
		}
	default:
		prop = &jsonschema.Schema{}
	}
	prop.Title = field.DisplayLabel()
	return prop
}
