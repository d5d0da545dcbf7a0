package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKind(t *testing.T) {
	err := New(NotFound, "Product not found")
	assert.True(t, Is(err, NotFound))
	assert.False(t, Is(err, Conflict))
	assert.False(t, Is(errors.New("plain"), NotFound))
	assert.False(t, Is(nil, NotFound))
}

func TestIsSeesThroughWrapping(t *testing.T) {
	inner := New(Forbidden, "Only the owning farmer can edit this product")
	wrapped := fmt.Errorf("update failed: %w", inner)
	assert.True(t, Is(wrapped, Forbidden))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Cart is empty", Message(New(BadRequest, "Cart is empty")))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(StorageFailure, "Could not retrieve cart", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{BadRequest, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{StorageFailure, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(New(tc.kind, "x")), tc.kind.String())
	}
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("plain")))
}
