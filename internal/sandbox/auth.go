package sandbox

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenDTO struct {
	Refresh string  `json:"refresh"`
	Access  string  `json:"access"`
	User    userDTO `json:"user"`
}

// issue must be called with s.mu held.
func (s *Server) issue(u *user) tokenDTO {
	access := s.tokens()
	s.sessions[access] = u.id
	return tokenDTO{
		Refresh: s.tokens(),
		Access:  access,
		User:    userDTO{ID: u.id, Username: u.username, Email: u.email},
	}
}

// AddUser registers an account directly, bypassing the HTTP API.
func (s *Server) AddUser(username, email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = &user{id: s.nextID(), username: username, email: email, password: password}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decode(w, r, &in) {
		return
	}

	errs := fieldErrors{}
	if in.Username == "" {
		errs.add("username", "This field is required.")
	}
	if in.Email == "" {
		errs.add("email", "This field is required.")
	}
	if in.Password == "" {
		errs.add("password", "This field is required.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.users[in.Username]; taken && in.Username != "" {
		errs.add("username", "A user with that username already exists.")
	}
	if errs.write(w) {
		return
	}

	u := &user{id: s.nextID(), username: in.Username, email: in.Email, password: in.Password}
	s.users[u.username] = u
	writeJSON(w, http.StatusCreated, s.issue(u))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decode(w, r, &in) {
		return
	}
	if in.Username == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[in.Username]
	if !ok || u.password != in.Password {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, s.issue(u))
}

// Revoke invalidates an access token, as an expiry would.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
