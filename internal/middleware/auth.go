package middleware

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// OpsKeyHeader carries the operator key on ops requests.
const OpsKeyHeader = "X-Ops-Key"

type OpsKeyMiddleware struct {
	hash []byte
}

// NewOpsKeyMiddleware takes the bcrypt hash of the operator key. An empty
// hash disables every route behind the middleware.
func NewOpsKeyMiddleware(hash string) *OpsKeyMiddleware {
	return &OpsKeyMiddleware{hash: []byte(hash)}
}

func (o *OpsKeyMiddleware) Enabled() bool {
	return len(o.hash) > 0
}

func (o *OpsKeyMiddleware) RequireOpsKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !o.Enabled() {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		key := r.Header.Get(OpsKeyHeader)
		if key == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := bcrypt.CompareHashAndPassword(o.hash, []byte(key)); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
