package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fyndrai/fyndr/internal/server/users"
)

const maxBodyBytes = 1 << 20

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), users.Registration(req))
	s.metrics.authEvent("register", err)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully.",
		"user":    profileView(user),
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	if missing := requiredFields(map[string]string{"username": req.Username, "password": req.Password}); missing != nil {
		writeJSON(w, http.StatusBadRequest, missing)
		return
	}

	pair, err := s.users.Login(r.Context(), req.Username, req.Password)
	s.metrics.authEvent("login", err)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !s.decode(w, r, &req) {
		return
	}
	if missing := requiredFields(map[string]string{"refresh": req.Refresh}); missing != nil {
		writeJSON(w, http.StatusBadRequest, missing)
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.Refresh)
	s.metrics.authEvent("refresh", err)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, profileView(user))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	current, _ := userFromContext(r.Context())

	var changes map[string]any
	if !s.decode(w, r, &changes) {
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), current.ID, changes)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileView(user))
}

// profileView is the nested profile document: account fields at the top,
// role-specific details under "profile".
func profileView(u *users.User) map[string]any {
	details := u.Details()
	if details == nil {
		details = map[string]any{}
	}
	return map[string]any{
		"id":                  u.ID,
		"username":            u.UserName,
		"email":               u.Email,
		"first_name":          u.FirstName,
		"last_name":           u.LastName,
		"role":                u.Role,
		"onboarding_complete": u.OnboardingComplete || u.Role == users.RoleAdministrator,
		"date_joined":         u.CreatedAt.Format(time.RFC3339),
		"profile":             details,
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - empty body", "")
		return false
	}
	writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error(), "")
	return false
}

func requiredFields(values map[string]string) map[string][]string {
	var missing map[string][]string
	for field, v := range values {
		if strings.TrimSpace(v) == "" {
			if missing == nil {
				missing = make(map[string][]string)
			}
			missing[field] = []string{"This field is required."}
		}
	}
	return missing
}
