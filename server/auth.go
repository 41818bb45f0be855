package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"marketing_content_studio/store"
)

type userKey struct{}

// userHandler is a handler that requires an authenticated user.
type userHandler func(w http.ResponseWriter, r *http.Request, user store.User)

// auth resolves the bearer token, applies the per-user rate limit, and passes
// the user through the request context.
func (s *Server) auth(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w, "Could not validate credentials")
			return
		}
		user, err := s.store.UserByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				unauthorized(w, "Could not validate credentials")
				return
			}
			s.storeError(w, err, "")
			return
		}
		if !s.limiters.allow(user.ID) {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
			return
		}
		ctx := context.WithValue(r.Context(), userKey{}, user)
		next(w, r.WithContext(ctx), user)
	}
}

// admin rejects non-admin users after auth has run.
func (s *Server) admin(next userHandler) userHandler {
	return func(w http.ResponseWriter, r *http.Request, user store.User) {
		if user.Role != store.RoleAdmin {
			writeError(w, http.StatusForbidden, "Not enough permissions")
			return
		}
		next(w, r, user)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, detail)
}

// --- Rate limiting ---

type limiterPool struct {
	mu        sync.Mutex
	limiters  map[int64]*rate.Limiter
	perMinute int
}

func newLimiterPool(perMinute int) *limiterPool {
	return &limiterPool{limiters: make(map[int64]*rate.Limiter), perMinute: perMinute}
}

func (p *limiterPool) allow(userID int64) bool {
	p.mu.Lock()
	lim, ok := p.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(p.perMinute)), p.perMinute)
		p.limiters[userID] = lim
	}
	p.mu.Unlock()
	return lim.Allow()
}

// --- Handlers ---

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Email and a password of at least 6 characters are required")
		return
	}
	user, err := s.store.CreateUser(r.Context(), req.Email, req.Password, store.RoleUser)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "Email already registered")
			return
		}
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeJSON(w, r, &req) {
		return
	}
	s.login(w, r, req.Email, req.Password)
}

// handleLoginForm accepts the OAuth2 password form shape with username and
// password fields.
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	s.login(w, r, r.PostFormValue("username"), r.PostFormValue("password"))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, email, password string) {
	user, err := s.store.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			unauthorized(w, "Incorrect email or password")
			return
		}
		s.storeError(w, err, "")
		return
	}
	ttl := time.Duration(s.cfg.TokenTTLHours) * time.Hour
	token, err := s.store.IssueToken(r.Context(), user.ID, ttl)
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tokenResp{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user store.User) {
	writeJSON(w, http.StatusOK, user)
}
