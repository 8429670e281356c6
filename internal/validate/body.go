package validate

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ayush/item-catalog/backend/internal/apperr"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

var (
	ErrInvalidJSON = errors.New("invalid JSON body")
	ErrNotObject   = errors.New("request body is not an object")
)

// DecodeObject reads a JSON document and returns it only if it is an
// object. Numbers are kept as json.Number so integer rules can tell 3 from 3.5.
func DecodeObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, ErrInvalidJSON
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, ErrInvalidJSON
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// DecodeRequestObject limits the request body and decodes it as an object.
func DecodeRequestObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	defer r.Body.Close()
	return DecodeObject(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
}

// BodyError maps a decode failure to the client-facing validation error.
func BodyError(err error) error {
	if errors.Is(err, ErrNotObject) {
		return apperr.Validation("Invalid request body")
	}
	return apperr.Validation("Invalid JSON body")
}
