package getdefault

import (
	"fmt"
	"net/http"

	"shortlink/internal/http/httputils"
)

// HandlerGetDefault answers GET / with 400: a short code is required.
func HandlerGetDefault() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details := fmt.Sprintf("short code is required\nMethod: %s\nPath: %s", r.Method, r.URL.Path)
		httputils.WriteTextError(w, http.StatusBadRequest, details)
	}
}
