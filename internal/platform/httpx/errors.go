// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// ErrValidation marks request bodies the connector refuses to process.
var ErrValidation = errors.New("validation failed")

// RespondError maps request errors to RFC7807 responses. Anything that is not
// a validation failure is reported without detail.
func RespondError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrValidation) {
		Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
