// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		code   string
		msg    string
	}{
		{"not found", func(w http.ResponseWriter) { NotFound(w, "entry") },
			http.StatusNotFound, "NOT_FOUND", "entry not found"},
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "title is required") },
			http.StatusBadRequest, "VALIDATION_ERROR", "title is required"},
		{"unauthorized default", func(w http.ResponseWriter) { Unauthorized(w, "") },
			http.StatusUnauthorized, "UNAUTHORIZED", "authentication required"},
		{"forbidden", func(w http.ResponseWriter) { Forbidden(w, "") },
			http.StatusForbidden, "FORBIDDEN", "access denied"},
		{"conflict", func(w http.ResponseWriter) { Conflict(w, "in use") },
			http.StatusConflict, "CONFLICT", "in use"},
		{"internal hides cause", func(w http.ResponseWriter) {
			InternalServerError(w, errors.New("pq: secret detail"))
		}, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
		{"plain error", func(w http.ResponseWriter) { JSONError(w, errors.New("x")) },
			http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
		{"token expired", func(w http.ResponseWriter) { JSONError(w, TokenExpiredError()) },
			http.StatusUnauthorized, "TOKEN_EXPIRED", "token has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			body := decodeError(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.msg, body.Error.Message)
		})
	}
}

func TestSuccessWriters(t *testing.T) {
	rec := httptest.NewRecorder()
	Ack(rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Created(rec, map[string]string{"id": "x"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"x"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestAppErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFoundError("user"))

	assert.True(t, IsAppError(err))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "user not found")
	assert.False(t, IsAppError(ErrNotFound))
}

func TestPgErrorClassification(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsDuplicateKey(dup))
	assert.False(t, IsForeignKeyViolation(dup))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsDuplicateKey(errors.New("23505")))
}

func TestFormatValidationError(t *testing.T) {
	type request struct {
		PromptText string `validate:"required"`
		Email      string `validate:"email"`
		Role       string `validate:"oneof=ADMIN USER"`
		Password   string `validate:"min=8"`
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(request{Email: "nope", Role: "ROOT", Password: "short"})
	require.Error(t, err)

	assert.Equal(t,
		"promptText is required; email must be a valid email; "+
			"role must be one of [ADMIN USER]; password must be at least 8",
		FormatValidationError(err),
	)

	assert.Equal(t, "plain", FormatValidationError(errors.New("plain")))
}
