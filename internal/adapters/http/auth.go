package httpadapter

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/banguela/school-admin/internal/core/domain"
)

const sessionIDKey contextKey = "session_id"

// AuthConfig carries the single-operator credential pair and token settings.
type AuthConfig struct {
	Username     string
	PasswordHash []byte
	Secret       []byte
	TokenTTL     time.Duration
}

func (a AuthConfig) normalize() AuthConfig {
	out := a
	if out.TokenTTL <= 0 {
		out.TokenTTL = time.Hour
	}
	return out
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, domain.WrapError(domain.ErrValidation, "http.login", err))
		return
	}

	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(rt.auth.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword(rt.auth.PasswordHash, []byte(req.Password))
	if !userMatch || passErr != nil {
		writeError(w, r, domain.WrapError(domain.ErrUnauthorized, "http.login", nil))
		return
	}

	sessionID := uuid.NewString()
	now := time.Now().UTC()
	expiresAt := now.Add(rt.auth.TokenTTL)
	claims := jwt.MapClaims{
		"sub": req.Username,
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(rt.auth.Secret)
	if err != nil {
		writeError(w, r, domain.WrapError(domain.ErrUnauthorized, "http.login", err))
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		SessionID: sessionID,
		ExpiresAt: expiresAt,
	})
}

// requireSession validates the bearer token and threads the session id
// through the request context for per-session artifact scoping.
func (rt *Router) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			writeError(w, r, domain.WrapError(domain.ErrUnauthorized, "http.auth", nil))
			return
		}

		token, err := jwt.Parse(strings.TrimSpace(raw), func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return rt.auth.Secret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, r, domain.WrapError(domain.ErrUnauthorized, "http.auth", err))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(w, r, domain.WrapError(domain.ErrUnauthorized, "http.auth", nil))
			return
		}
		sessionID, _ := claims["sid"].(string)
		if sessionID == "" {
			writeError(w, r, domain.WrapError(domain.ErrUnauthorized, "http.auth", nil))
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}
