package security

import (
	"net/http"
	"strconv"
	"strings"
)

// allowedContentTypes for requests carrying a body.
var allowedContentTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Headers sets the standard security response headers on every reply.
func Headers(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		h.Set("Content-Security-Policy", "default-src 'self'")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

		next.ServeHTTP(w, r)
	})
}

// NewRequestValidator rejects oversized bodies and unexpected content
// types before they reach the handlers.
func NewRequestValidator(maxBodySize int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cl := r.Header.Get("Content-Length"); cl != "" {
				size, err := strconv.ParseInt(cl, 10, 64)
				if err != nil {
					http.Error(w, "Invalid Content-Length header", http.StatusBadRequest)

					return
				}
				if size > maxBodySize {
					http.Error(w, "Request entity too large", http.StatusRequestEntityTooLarge)

					return
				}
			}

			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
				contentType := r.Header.Get("Content-Type")
				if !contentTypeAllowed(contentType) {
					http.Error(w, "Unsupported media type", http.StatusUnsupportedMediaType)

					return
				}
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

			next.ServeHTTP(w, r)
		})
	}
}

func contentTypeAllowed(contentType string) bool {
	for _, allowed := range allowedContentTypes {
		if strings.HasPrefix(contentType, allowed) {
			return true
		}
	}

	return false
}
