package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("no such thing")))
	assert.Equal(t, KindConflict, KindOf(Conflict("taken")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := Forbidden("not yours")
	wrapped := fmt.Errorf("handling request: %w", inner)

	assert.True(t, IsKind(wrapped, KindForbidden))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Unavailable(cause, "failed to reach database")

	assert.ErrorIs(t, err, cause)
}

func respond(t *testing.T, err error) (int, APIError) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	Respond(c, err)

	var body APIError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestRespondMapsKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", InvalidInput("bad field"), http.StatusBadRequest, ErrCodeInvalidInput},
		{"unauthenticated", Unauthenticated("who are you"), http.StatusUnauthorized, ErrCodeUnauthorized},
		{"forbidden", Forbidden("not yours"), http.StatusForbidden, ErrCodeForbidden},
		{"not found", NotFound("no such thing"), http.StatusNotFound, ErrCodeNotFound},
		{"conflict", Conflict("taken"), http.StatusConflict, ErrCodeConflict},
		{"invalid state", InvalidState("wrong phase"), http.StatusConflict, ErrCodeInvalidState},
		{"unavailable", Unavailable(errors.New("dial tcp"), "db down"), http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := respond(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestRespondHidesUnavailableCause(t *testing.T) {
	_, body := respond(t, Unavailable(errors.New("dial tcp 10.0.0.3:3306"), "db down"))
	assert.NotContains(t, body.Message, "dial tcp")
}
