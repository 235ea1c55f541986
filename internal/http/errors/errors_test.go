package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ums/internal/auth"
	"github.com/dropDatabas3/ums/internal/domain/repository"
)

func TestFromAuthTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{auth.ErrMissingToken, http.StatusUnauthorized, "TOKEN_MISSING"},
		{auth.ErrInvalidToken, http.StatusUnauthorized, "TOKEN_INVALID"},
		{auth.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{auth.ErrInvalidRole, http.StatusBadRequest, "INVALID_ROLE"},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{fmt.Errorf("%w: dial tcp", auth.ErrStoreUnavailable), http.StatusInternalServerError, "STORE_UNAVAILABLE"},
	}
	for _, tc := range cases {
		got := FromAuth(tc.err)
		require.NotNil(t, got, tc.err.Error())
		require.Equal(t, tc.status, got.HTTPStatus)
		require.Equal(t, tc.code, got.Code)
		require.ErrorIs(t, got, tc.err)
	}
	require.Nil(t, FromAuth(nil))
	require.Nil(t, FromAuth(repository.ErrNotFound))
}

func TestFromErrorRepository(t *testing.T) {
	require.Equal(t, http.StatusNotFound, FromError(repository.ErrNotFound).HTTPStatus)
	require.Equal(t, http.StatusConflict, FromError(repository.ErrConflict).HTTPStatus)
	require.Equal(t, http.StatusConflict, FromError(repository.ErrInvalidReference).HTTPStatus)
	require.Equal(t, http.StatusInternalServerError, FromError(fmt.Errorf("boom")).HTTPStatus)

	wrapped := fmt.Errorf("ctx: %w", ErrForbidden)
	require.Same(t, ErrForbidden, FromError(wrapped))
}

func TestWithDetailDoesNotMutate(t *testing.T) {
	e := ErrBadRequest.WithDetail("x")
	require.Equal(t, "x", e.Detail)
	require.Empty(t, ErrBadRequest.Detail)
	require.ErrorIs(t, e, ErrBadRequest)
	require.NotErrorIs(t, e, ErrValidation)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, auth.ErrInvalidCredentials)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INVALID_CREDENTIALS", body["code"])
	require.Equal(t, "Invalid credentials", body["message"])
	_, hasDetail := body["detail"]
	require.False(t, hasDetail)
}
