package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JonMunkholm/crmdesk/internal/core"
)

// maxJSONBody caps form request bodies.
const maxJSONBody = 1 << 20

// sessionResponse describes the session to the console.
type sessionResponse struct {
	Authenticated   bool       `json:"authenticated"`
	User            *core.User `json:"user,omitempty"`
	RememberedEmail string     `json:"rememberedEmail,omitempty"`
}

// decodeJSON reads a JSON body of at most maxJSONBody bytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return core.ValidationErrors{{Field: "body", Message: "request body is empty"}}
		}
		return core.ValidationErrors{{Field: "body", Message: fmt.Sprintf("invalid request body: %v", err)}}
	}
	return nil
}

// handleSession returns the stored session, refreshing the user from the
// backend when a token is held.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	cur := s.sessions.Current()
	if !cur.Authenticated() {
		writeJSON(w, r, http.StatusOK, sessionResponse{RememberedEmail: cur.RememberedEmail})
		return
	}

	user, err := s.auth.Me(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.sessions.Update(r.Context(), "", user); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse{
		Authenticated:   true,
		User:            user,
		RememberedEmail: cur.RememberedEmail,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form core.LoginForm
	if err := decodeJSON(w, r, &form); err != nil {
		s.fail(w, r, err)
		return
	}
	form.Email = strings.TrimSpace(form.Email)
	if err := s.service.Validator().Validate(form); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.auth.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	if err := s.sessions.Update(ctx, res.Token, &res.User); err != nil {
		s.fail(w, r, err)
		return
	}
	remembered := ""
	if form.Remember {
		remembered = form.Email
	}
	if err := s.sessions.Remember(ctx, remembered); err != nil {
		s.fail(w, r, err)
		return
	}

	user := res.User
	writeJSON(w, r, http.StatusOK, sessionResponse{
		Authenticated:   true,
		User:            &user,
		RememberedEmail: remembered,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Teardown(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionResponse{RememberedEmail: s.sessions.Current().RememberedEmail})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var form core.PasswordChangeForm
	if err := decodeJSON(w, r, &form); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.service.Validator().Validate(form); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.auth.ChangePassword(r.Context(), form); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"success": true})
}
