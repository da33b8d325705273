package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelson/you-are-the-hero/internal/model"
	"github.com/nelson/you-are-the-hero/internal/services/auth"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"user exists", model.ErrUserAlreadyExists, http.StatusConflict, CodeUserExists},
		{"wrapped user not found", fmt.Errorf("%w: arya", model.ErrUserNotFound), http.StatusNotFound, CodeUserNotFound},
		{"admin exists", model.ErrAdminAlreadyExists, http.StatusConflict, CodeAdminExists},
		{"invalid role", model.ErrInvalidRole, http.StatusBadRequest, CodeInvalidRole},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{"bad session", auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
		{"invalid request", NewInvalidRequestError("username is required"), http.StatusBadRequest, CodeInvalidRequest},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestInternalErrorsHideDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("password=hunter2"))
	assert.NotContains(t, rr.Body.String(), "hunter2")
}
