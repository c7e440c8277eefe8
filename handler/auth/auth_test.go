package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"lendpool/handler/request"

	"github.com/stretchr/testify/assert"
)

func TestAuthentication(t *testing.T) {
	var seen string
	h := HandleAuthentication(map[string]string{"secret": "alice"})(LoginRequired(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = request.NewContext(r.Context()).GetUser()
	})))

	for token, status := range map[string]int{
		"":       http.StatusUnauthorized,
		"wrong":  http.StatusUnauthorized,
		"secret": http.StatusOK,
	} {
		seen = ""
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}

		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, status, w.Code, token)
	}

	assert.Equal(t, "alice", seen)
}
