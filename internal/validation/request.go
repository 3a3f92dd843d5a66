package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MaxContentLength is the largest accepted message content, in characters.
const MaxContentLength = 255

// ContentField is the only field accepted in a message payload.
const ContentField = "content"

// SchemaField collects errors that concern the payload as a whole.
const SchemaField = "_schema"

// Messages reported to API clients.
const (
	EmptyBodyMessage    = "Request body cannot be empty."
	MissingFieldMessage = "Missing data for required field."
	NullFieldMessage    = "Field may not be null."
	NotAStringMessage   = "Not a valid string."
	BlankMessage        = "Cannot be blank."
	UnknownFieldMessage = "Unknown field."
	InvalidInputMessage = "Invalid input type."
)

// LengthMessage is reported when content is outside 1..MaxContentLength characters.
var LengthMessage = fmt.Sprintf("Length must be between 1 and %d characters.", MaxContentLength)

// ErrEmptyBody is returned when a create or update request carries no bytes at all.
var ErrEmptyBody = errors.New("request body cannot be empty")

// FieldErrors maps a payload field to the list of rules it violated.
type FieldErrors map[string][]string

// Add records a violation for field
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], " ")))
	}
	return "invalid message payload: " + strings.Join(parts, "; ")
}

var validate = newValidator()

// contentRules are checked independently so that every violated rule is reported.
var contentRules = []struct {
	tag     string
	message string
}{
	{fmt.Sprintf("min=1,max=%d", MaxContentLength), LengthMessage},
	{"notblank", BlankMessage},
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
	return v
}

// notBlank fails for non-empty strings made only of whitespace.
// The empty string is left to the length rule.
func notBlank(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || strings.TrimFunc(s, isSpace) != ""
}

// isSpace is unicode.IsSpace plus the ASCII file, group, record and unit separators
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

// ValidateContent checks message content against the field rules.
// It returns nil or a FieldErrors keyed by ContentField.
func ValidateContent(content string) error {
	errs := FieldErrors{}
	for _, rule := range contentRules {
		if err := validate.Var(content, rule.tag); err != nil {
			errs.Add(ContentField, rule.message)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DecodeMessageRequest parses a create/update payload and returns the validated content.
// An empty body yields ErrEmptyBody; every other problem is reported as FieldErrors.
func DecodeMessageRequest(body []byte) (string, error) {
	if len(body) == 0 {
		return "", ErrEmptyBody
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return "", FieldErrors{SchemaField: {InvalidInputMessage}}
	}

	errs := FieldErrors{}
	for field := range fields {
		if field != ContentField {
			errs.Add(field, UnknownFieldMessage)
		}
	}

	var content string
	raw, ok := fields[ContentField]
	switch {
	case !ok:
		errs.Add(ContentField, MissingFieldMessage)
	case bytes.Equal(bytes.TrimSpace(raw), []byte("null")):
		errs.Add(ContentField, NullFieldMessage)
	default:
		if err := json.Unmarshal(raw, &content); err != nil {
			errs.Add(ContentField, NotAStringMessage)
			break
		}
		var contentErrs FieldErrors
		if errors.As(ValidateContent(content), &contentErrs) {
			for _, message := range contentErrs[ContentField] {
				errs.Add(ContentField, message)
			}
		}
	}

	if len(errs) > 0 {
		return "", errs
	}
	return content, nil
}
