package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	authmw "github.com/quizforge/quizforge-portal/internal/auth/middleware"
	"github.com/quizforge/quizforge-portal/internal/rbac"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// viewer pulls the authenticated identity out of the request context,
// where JWTMiddleware and AttachRoleFromDB put it.
func viewer(r *http.Request) (id, role string) {
	return authmw.SubjectFromContext(r.Context()), rbac.RoleFromContext(r.Context())
}
