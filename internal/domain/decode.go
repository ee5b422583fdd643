package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// ErrInvalidDocument marks a document whose fields cannot be decoded into the
// expected record. Callers treat it like a missing reference.
var ErrInvalidDocument = errors.New("invalid document")

var validate = validator.New()

// Decode maps loosely typed document fields onto out, a pointer to one of the
// record types of this package, and validates required fields. Unknown fields
// are ignored. A nil fields map decodes to the zero record.
func Decode(fields map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}
