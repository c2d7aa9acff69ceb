package v1

import (
	"net/http"
	"strings"
)

// TokenFromRequest достаёт share-токен: query/form параметр "token",
// затем Authorization: Bearer.
func TokenFromRequest(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if t := r.FormValue("token"); t != "" {
		return t
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
