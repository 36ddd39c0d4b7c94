// Package validate runs field-level and cross-field rules against incoming
// payloads before any store access is attempted.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GlobalField is the Outcome key for cross-field messages that do not
// belong to a single field.
const GlobalField = ""

var fieldValidate *validator.Validate

func init() {
	fieldValidate = validator.New()

	// Report violations under the JSON name the caller sent.
	fieldValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Outcome maps a field name to the messages recorded against it. An empty
// Outcome means the payload is valid.
type Outcome map[string][]string

func (o Outcome) Valid() bool {
	return len(o) == 0
}

// AddGlobal records a message that spans more than one field.
func (o Outcome) AddGlobal(msg string) {
	o[GlobalField] = append(o[GlobalField], msg)
}

// AddField records a message against a single field.
func (o Outcome) AddField(field, msg string) {
	o[field] = append(o[field], msg)
}

// Struct runs every field-level rule on the payload, accumulating all
// violations, then runs the cross-field rules so a single response can
// report every problem at once. The returned Outcome is empty for a valid
// payload.
func Struct(payload any, crossRules ...func(Outcome)) Outcome {
	out := Outcome{}

	if err := fieldValidate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				out.AddField(fe.Field(), message(fe))
			}
		} else {
			out.AddGlobal(err.Error())
			return out
		}
	}

	for _, rule := range crossRules {
		rule(out)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

// NotIdentical records a global violation when two text values are the same
// after trimming, compared case-insensitively.
func NotIdentical(a, b, msg string) func(Outcome) {
	return func(out Outcome) {
		left := strings.TrimSpace(a)
		right := strings.TrimSpace(b)
		if left != "" && right != "" && strings.EqualFold(left, right) {
			out.AddGlobal(msg)
		}
	}
}
