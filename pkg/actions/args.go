package actions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseArguments converts a raw JSON payload into a typed request struct.
func ParseArguments[T any](args any) (T, error) {
	var result T

	if arg, ok := args.(T); ok {
		return arg, nil
	}

	b, err := json.Marshal(args)
	if err != nil {
		return result, err
	}
	if err = json.Unmarshal(b, &result); err != nil {
		return result, httperror.NewHTTPErrorf(http.StatusBadRequest, "payload is not a valid %T", result)
	}

	return result, nil
}

// ValidateArguments parses and validates a typed request struct in one step.
// Validation failures surface as 400s with a per-field message.
func ValidateArguments[T any](args any) (T, error) {
	result, err := ParseArguments[T](args)
	if err != nil {
		return result, err
	}

	if err = validate.Struct(result); err != nil {
		return result, validationError(result, err)
	}

	return result, nil
}

func validationError(input any, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msg := ""
	for _, fe := range verrs {
		msg += fmt.Sprintf("\n • Failed %T validation for field '%s': rule '%s' expected '%s', got '%v'.", input, fe.StructField(), fe.Tag(), fe.Param(), fe.Value())
	}
	return httperror.NewHTTPError(http.StatusBadRequest, msg)
}

// FlexInt tolerates numbers arriving as JSON numbers or numeric strings.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(int(parsed + 0.5))
	return nil
}

// Tags accepts either a string list or a comma separated string.
type Tags []string

// UnmarshalJSON implements json.Unmarshaler
func (t *Tags) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = trimTags(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(b, &joined); err == nil {
		*t = trimTags(strings.Split(joined, ","))
		return nil
	}
	*t = nil
	return nil
}

func trimTags(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" || len(out) >= 10 {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func coalesce(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
