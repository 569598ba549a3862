package validation

import (
	"github.com/xeipuuv/gojsonschema"

	apierrors "hireflow/internal/common/errors"
)

// Validator validates mutation payloads against a JSON schema before any
// network call is made. A schema failure blocks submission locally.
type Validator struct {
	schema *gojsonschema.Schema
}

// New compiles a schema from its JSON source.
func New(schemaJSON string) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, err
	}
	return &Validator{schema: schema}, nil
}

// MustNew compiles a schema and panics on failure. Schemas are package-level
// constants, so a failure here is a programming error.
func MustNew(schemaJSON string) *Validator {
	v, err := New(schemaJSON)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks payload against the schema. It returns nil when valid and a
// *apierrors.ValidationError carrying field-level messages otherwise.
func (v *Validator) Validate(payload interface{}) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return &apierrors.ValidationError{
			Fields: []apierrors.FieldError{{Field: "", Message: err.Error()}},
		}
	}
	if result.Valid() {
		return nil
	}

	fields := make([]apierrors.FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		fields = append(fields, apierrors.FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return &apierrors.ValidationError{Fields: fields}
}
