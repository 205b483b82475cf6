package middleware

import (
	"net/http"
	"strings"

	"github.com/mento-app/mento-server/internal/apperr"
	"github.com/mento-app/mento-server/internal/logger"
	"github.com/mento-app/mento-server/internal/model"
)

// ErrorWriter renders an error response.
type ErrorWriter interface {
	Error(w http.ResponseWriter, r *http.Request, err error)
}

// Authenticate validates bearer tokens and injects the user id into the context.
type Authenticate struct {
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	errors         ErrorWriter
	logger         *logger.Logger
	required       bool
}

// NewAuthenticate creates a new Authenticate middleware instance. When
// required is false, requests without a token pass through anonymously.
func NewAuthenticate(
	tokenManager model.TokenManager,
	contextManager model.ContextManager,
	errors ErrorWriter,
	logger *logger.Logger,
	required bool,
) *Authenticate {
	return &Authenticate{
		tokenManager:   tokenManager,
		contextManager: contextManager,
		errors:         errors,
		logger:         logger,
		required:       required,
	}
}

// Handle parses the Authorization header. A present token must be valid.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			if m.required {
				m.errors.Error(w, r, apperr.NewErrMissingAuthorizationToken())
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := bearerToken(header)
		if !ok {
			m.errors.Error(w, r, apperr.NewErrInvalidAuthorizationToken())
			return
		}

		userID, err := m.tokenManager.ParseAccessToken(tokenString)
		if err != nil || userID <= 0 {
			m.logger.Debug("Authenticate middleware: rejected token",
				"path", r.URL.Path)
			m.errors.Error(w, r, apperr.NewErrInvalidAuthorizationToken())
			return
		}

		ctx := m.contextManager.SetUserIDToContext(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const bearerPrefix = "Bearer "

func bearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
