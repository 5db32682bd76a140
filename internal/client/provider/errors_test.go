package provider

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusOK, nil},
		{http.StatusNoContent, nil},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusNotAcceptable, ErrNotFound},
		{http.StatusTooManyRequests, ErrUnavailable},
		{http.StatusBadGateway, ErrUnavailable},
		{http.StatusBadRequest, ErrRejected},
		{http.StatusConflict, ErrRejected},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromStatus(tt.code), "status %d", tt.code)
	}
}

func TestStatusError_UnwrapsToSentinel(t *testing.T) {
	var err error = &StatusError{Code: 401, Message: "JWT expired"}

	require.ErrorIs(t, err, ErrUnauthorized)
	require.False(t, errors.Is(err, ErrNotFound))
	require.Equal(t, "provider status 401: JWT expired", err.Error())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, 401, se.Code)

	require.Equal(t, "provider status 500", (&StatusError{Code: 500}).Error())
}
