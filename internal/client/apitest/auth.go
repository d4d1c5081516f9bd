package apitest

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophshop/internal/client/models"
)

type accountKey struct{}

func currentAccount(r *http.Request) *account {
	a, _ := r.Context().Value(accountKey{}).(*account)
	return a
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		s.mu.Lock()
		email, err := emailFromToken(token, s.secret)
		var a *account
		if err == nil {
			a = s.accountByEmail(email)
		}
		active := a != nil && bool(a.user.IsActive)
		s.mu.Unlock()

		if a == nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if !active {
			writeDetail(w, http.StatusBadRequest, "Inactive user")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountKey{}, a)))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		admin := bool(currentAccount(r).user.IsAdmin)
		s.mu.Unlock()

		if !admin {
			writeDetail(w, http.StatusForbidden, "Not enough permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Password == "" || !strings.Contains(req.Email, "@") {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []validationIssue{{Loc: []string{"body"}, Msg: "name, email and password are required", Type: "missing"}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accountByEmail(req.Email) != nil {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	a := s.addAccount(req, false)
	writeJSON(w, http.StatusCreated, a.user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed form")
		return
	}
	email, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	s.mu.Lock()
	a := s.accountByEmail(email)
	ok := a != nil && a.password == password
	var (
		token string
		err   error
	)
	if ok {
		token, err = generateToken(a.user.Email, s.secret, s.ttl)
	}
	s.mu.Unlock()

	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := currentAccount(r).user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileUpdate
	if !decodeBody(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := &currentAccount(r).user
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	writeJSON(w, http.StatusOK, *u)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var in models.PasswordChange
	if !decodeBody(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := currentAccount(r)
	if a.password != in.CurrentPassword {
		writeDetail(w, http.StatusBadRequest, "Incorrect current password")
		return
	}
	a.password = in.NewPassword
	writeMessage(w, "Password changed successfully")
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]models.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, a.user)
	}
	s.mu.Unlock()

	writePage(w, r, users)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in models.UserUpdate
	if !decodeBody(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.user.ID != userID {
			continue
		}
		u := &a.user
		if in.Name != nil {
			u.Name = *in.Name
		}
		if in.Phone != nil {
			u.Phone = *in.Phone
		}
		if in.Address != nil {
			u.Address = *in.Address
		}
		if in.IsActive != nil {
			u.IsActive = *in.IsActive
		}
		if in.IsAdmin != nil {
			u.IsAdmin = *in.IsAdmin
		}
		writeJSON(w, http.StatusOK, *u)
		return
	}
	writeDetail(w, http.StatusNotFound, "User not found")
}
