// Package validate turns untyped request values into normalized, typed
// values or a validation error naming the offending field.
//
// Every rule is total over its input: any decoded JSON value may be passed
// and the result is either an accepted value or an *apperr.Error of kind
// validation. Rules never share state between calls.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ayush/item-catalog/backend/internal/apperr"
)

var (
	identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	mediaTypePattern  = regexp.MustCompile(`^[\w.-]+/[\w.+-]+$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "ident_token", identifierPattern)
	mustRegister(v, "media_type", mediaTypePattern)
	return v
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// NonEmptyString accepts a string that is non-empty after trimming and at
// most max characters long. It returns the trimmed value.
func NonEmptyString(field string, v any, max int) (string, error) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" || validate.Var(s, fmt.Sprintf("max=%d", max)) != nil {
		return "", apperr.Validationf("%s must be a non-empty string up to %d characters", field, max)
	}
	return strings.TrimSpace(s), nil
}

// PositiveInteger accepts a JSON number with no fractional part that is > 0.
func PositiveInteger(field string, v any) (int64, error) {
	n, ok := asInteger(v)
	if !ok || n <= 0 {
		return 0, apperr.Validationf("%s must be a positive integer", field)
	}
	return n, nil
}

// BoundedInteger accepts a JSON number with no fractional part in [min, max].
func BoundedInteger(field string, v any, min, max int64) (int64, error) {
	n, ok := asInteger(v)
	if !ok || n < min || n > max {
		return 0, apperr.Validationf("%s must be an integer between %d and %d", field, min, max)
	}
	return n, nil
}

// OptionalHTTPSURL accepts nil, an empty string (both meaning "no URL") or
// an absolute https URL, which is returned in canonical form.
func OptionalHTTPSURL(field string, v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, apperr.Validationf("%s must be a string or null", field)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperr.Validationf("%s must be a valid URL", field)
	}
	if u.Scheme != "https" {
		return nil, apperr.Validationf("%s must use https scheme", field)
	}

	canonical := canonicalURL(u)
	return &canonical, nil
}

// canonicalURL lower-cases the host, drops the default port and gives an
// empty path its root slash.
func canonicalURL(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port := u.Port(); port != "" && port != "443" {
		host += ":" + port
	}
	u.Host = host
	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}
	return u.String()
}

// IdentifierToken accepts nil (clear the value) or a string of min..max
// characters drawn from letters, digits, '_' and '-'. A non-nil value that
// is not a string is rejected with a different message than a string that
// fails the pattern.
func IdentifierToken(field string, v any, min, max int) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, apperr.Validationf("%s must be a string or null", field)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, apperr.Validationf("%s cannot be empty", field)
	}
	if validate.Var(s, fmt.Sprintf("min=%d,max=%d", min, max)) != nil {
		return nil, apperr.Validationf("%s must be between %d and %d characters", field, min, max)
	}
	if validate.Var(s, "ident_token") != nil {
		return nil, apperr.Validationf("%s may only contain letters, numbers, underscores, or hyphens", field)
	}
	return &s, nil
}

// FileExtension accepts an alphanumeric extension of at most max characters
// and returns it lower-cased.
func FileExtension(field string, v any, max int) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", apperr.Validationf("%s must be a string", field)
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if validate.Var(s, fmt.Sprintf("required,alphanum,max=%d", max)) != nil {
		return "", apperr.Validationf("%s must be alphanumeric (max %d chars)", field, max)
	}
	return s, nil
}

// MIMEType accepts a basic type/subtype token such as image/png.
func MIMEType(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", apperr.Validationf("%s must be a string", field)
	}
	s = strings.TrimSpace(s)
	if validate.Var(s, "required,media_type") != nil {
		return "", apperr.Validationf("%s must be a valid MIME type", field)
	}
	return s, nil
}

func asInteger(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInteger(f)
	case float64:
		return floatToInteger(n)
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func floatToInteger(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
