package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/foodmood/foodmood/internal/validation"
)

var validate = validation.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// readValid decodes the body into v and runs its validate tags. The error
// message is safe to show to the caller.
func readValid(r *http.Request, v any) error {
	if err := readJSON(r, v); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		if field, ok := validation.FirstField(err); ok {
			return fmt.Errorf("%s is invalid", field)
		}
		return errors.New("invalid request body")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
