// Package handler holds the HTTP handlers of the JSON API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nelson/you-are-the-hero/internal/api/apierr"
)

// decode reads a JSON body into v, rejecting unknown fields
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apierr.NewInvalidRequestError("invalid request body")
	}
	return nil
}

func required(field, value string) error {
	if value == "" {
		return apierr.NewInvalidRequestError(field + " is required")
	}
	return nil
}
