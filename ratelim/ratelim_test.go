package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func ok(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func fire(h httprouter.Handle, remoteAddr string) int {
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h(w, r, nil)
	return w.Code
}

func TestLimitAllowsBurstThenRejects(t *testing.T) {
	h := NewRateLimiter().Limit(ok)

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, fire(h, "10.0.0.1:5000"), "request %d", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, fire(h, "10.0.0.1:5000"))
}

func TestLimitIsPerIP(t *testing.T) {
	h := NewRateLimiter().Limit(ok)

	for i := 0; i < 11; i++ {
		fire(h, "10.0.0.1:5000")
	}
	// A different client still has its full budget.
	assert.Equal(t, http.StatusOK, fire(h, "10.0.0.2:6000"))
}
