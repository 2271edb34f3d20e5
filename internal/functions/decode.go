package functions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// ValidationError lists the human readable problems found in a payload.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid payload: " + strings.Join(e.Fields, "; ")
}

// Unwrap makes every ValidationError match ErrInvalidArgument.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

type payloadValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

var payloads = newPayloadValidator()

func newPayloadValidator() *payloadValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &payloadValidator{validate: validate, trans: trans}
}

// decodePayload unmarshals data into dst and validates the result.
// An empty payload decodes as an empty object.
func decodePayload(data json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		data = json.RawMessage(`{}`)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: failed to decode payload: %w", ErrInvalidArgument, err)
	}

	if err := payloads.validate.Struct(dst); err != nil {
		return payloads.translate(err)
	}

	return nil
}

func (p *payloadValidator) translate(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields = append(fields, fieldErr.Translate(p.trans))
	}

	return &ValidationError{Fields: fields}
}

// payloadString renders data for log lines, substituting {} for an empty payload.
func payloadString(data json.RawMessage) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "{}"
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed)
	}

	return compact.String()
}
