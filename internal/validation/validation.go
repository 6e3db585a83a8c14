// Package validation holds the pure field-validation rules for the
// catalog. Values arrive as decoded JSON (string, float64, bool,
// []interface{}) or as native Go values; Check verifies both the runtime
// type and the field-specific rules, without mutating anything. Trimming
// is the caller's job, performed after validation succeeds.
package validation

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecom-labs/catalog-service/internal/domain"
)

// Kind is the expected shape of a field value.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	StringSlice
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case StringSlice:
		return "string array"
	}
	return "unknown"
}

// Accepted layouts for dateReleased. The set is fixed rather than
// open-ended; anything else is rejected.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Check validates value against kind and the rules attached to field.
// It returns a *domain.ValidationError describing the first violation,
// or nil. It has no side effects and is deterministic.
func Check(value interface{}, kind Kind, field string) error {
	if value == nil {
		return domain.NewValidationError(field, "value is missing")
	}

	switch kind {
	case String:
		s, ok := value.(string)
		if !ok {
			return domain.NewValidationError(field, "expected a string, got %T", value)
		}
		if strings.TrimSpace(s) == "" {
			return domain.NewValidationError(field, "must not be empty or whitespace")
		}
		return checkStringRules(s, field)

	case Number:
		f, ok := AsFloat(value)
		if !ok {
			return domain.NewValidationError(field, "expected a number, got %T", value)
		}
		return checkNumberRules(f, field)

	case Bool:
		if _, ok := value.(bool); !ok {
			return domain.NewValidationError(field, "expected a boolean, got %T", value)
		}
		return nil

	case StringSlice:
		elems, ok := AsStringSlice(value)
		if !ok {
			return domain.NewValidationError(field, "expected an array of strings, got %T", value)
		}
		if len(elems) == 0 {
			return domain.NewValidationError(field, "must contain at least one item")
		}
		for _, s := range elems {
			if strings.TrimSpace(s) == "" {
				return domain.NewValidationError(field, "items must not be empty or whitespace")
			}
		}
		return nil
	}

	return domain.NewValidationError(field, "unsupported kind")
}

// CheckID validates an opaque document identifier. It returns
// *domain.InvalidIDError unless id is a non-empty trimmed string in the
// store's id format. Used before every lookup or mutation by id.
func CheckID(id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" || !primitive.IsValidObjectID(trimmed) {
		return &domain.InvalidIDError{ID: id}
	}
	return nil
}

func checkStringRules(s, field string) error {
	switch field {
	case "manufacturerWebsite":
		const prefix, suffix = "http://www.", ".com"
		if !strings.HasPrefix(s, prefix) {
			return domain.NewValidationError(field, "must start with %q", prefix)
		}
		if !strings.HasSuffix(s, suffix) {
			return domain.NewValidationError(field, "must end with %q", suffix)
		}
		if len(s) < len(prefix)+len(suffix)+5 {
			return domain.NewValidationError(field, "must have at least 5 characters between %q and %q", prefix, suffix)
		}
	case "dateReleased":
		trimmed := strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, trimmed); err == nil {
				return nil
			}
		}
		return domain.NewValidationError(field, "is not a valid calendar date")
	}
	return nil
}

func checkNumberRules(f float64, field string) error {
	switch field {
	case "price":
		if f <= 0 {
			return domain.NewValidationError(field, "must be greater than 0")
		}
		if fractionDigits(f) > 2 {
			return domain.NewValidationError(field, "must have at most two decimal places")
		}
	case "rating":
		if f < 1 || f > 5 {
			return domain.NewValidationError(field, "must be between 1 and 5 inclusive")
		}
		if fractionDigits(f) > 1 {
			return domain.NewValidationError(field, "must have at most one decimal place")
		}
	}
	return nil
}

// fractionDigits counts the decimal digits of f's shortest exact
// representation, mirroring how the value would appear in JSON.
func fractionDigits(f float64) int {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// AsFloat converts a numeric value of any accepted runtime type to
// float64. Ok is false for non-numeric values.
func AsFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// AsStringSlice converts a []string or a JSON-decoded []interface{} of
// strings to []string. Ok is false for anything else.
func AsStringSlice(value interface{}) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
