package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Envelope is the uniform response shape used by every endpoint:
// {"success": bool, "message"?: string, ...payload}.
type Envelope map[string]interface{}

// ErrMessageStore is the generic message for persistence failures. Internal
// detail is logged server-side, never sent to the client.
const ErrMessageStore = "Something went wrong. Please try again."

// validate is shared; validator.Validate is safe for concurrent use.
var validate = validator.New()

// WriteJSON writes a 200 response with the given envelope. Logical failures
// still ride a 200; the client reads the success field.
func WriteJSON(w http.ResponseWriter, v Envelope) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Fail writes a success:false envelope with a message.
func Fail(w http.ResponseWriter, message string) {
	WriteJSON(w, Envelope{"success": false, "message": message})
}

// MethodNotAllowed is one of the few paths that sets a non-200 status.
func MethodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	json.NewEncoder(w).Encode(Envelope{"success": false, "message": "Method not allowed"})
}

// DecodeStrict decodes a JSON body into dst, rejecting unknown fields and
// trailing garbage. Malformed input is a validation failure, not a default.
func DecodeStrict(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second value after the object is also malformed input.
	if dec.More() {
		return errTrailingData
	}
	return nil
}

var errTrailingData = errors.New("unexpected data after JSON body")
