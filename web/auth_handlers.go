package web

import (
	"errors"
	"net/http"

	"kopikoni/db"
	"kopikoni/models"
	"kopikoni/services"
)

// handleIndex routes by role: admins to order management, customers to the
// dashboard, everyone else to the login page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	switch s.classify(r) {
	case models.RoleAdmin:
		http.Redirect(w, r, "/admin/menu", http.StatusSeeOther)
	case models.RoleCustomer:
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	default:
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
	}
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if s.classify(r) != models.RoleAnonymous {
		s.handleIndex(w, r)
		return
	}
	tab := "customer"
	if r.URL.Query().Get("tab") == "admin" {
		tab = "admin"
	}
	s.render(w, r, http.StatusOK, "landing.html", map[string]any{
		"Title":     "Welcome to KopiKoni",
		"ActiveTab": tab,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLanding(w, r, "customer", "Invalid form submission.")
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	loginAs := r.PostFormValue("login_as")
	if loginAs != "admin" {
		loginAs = "customer"
	}

	user, err := services.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			s.renderLanding(w, r, loginAs, "Email or password is incorrect.")
			return
		}
		s.serverError(w, r, err)
		return
	}

	// Portal check: each role must log in through its own tab.
	if loginAs == "admin" && user.Role != models.RoleAdmin {
		s.renderLanding(w, r, "admin", "This account is not a registered admin account.")
		return
	}
	if loginAs == "customer" && user.Role == models.RoleAdmin {
		s.renderLanding(w, r, "customer", "Admin accounts must use the admin login tab.")
		return
	}

	if err := s.setUser(w, r, user.SessionUser()); err != nil {
		s.serverError(w, r, err)
		return
	}
	if user.Role == models.RoleAdmin {
		http.Redirect(w, r, "/admin/menu", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) renderLanding(w http.ResponseWriter, r *http.Request, activeTab, errMsg string) {
	s.render(w, r, http.StatusOK, "landing.html", map[string]any{
		"Title":     "Welcome to KopiKoni",
		"ActiveTab": activeTab,
		"Error":     errMsg,
	})
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register.html", map[string]any{
		"Title": "Create Account",
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderRegister(w, r, "Invalid form submission.")
		return
	}
	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	adminCode := r.PostFormValue("admin_code")

	role := services.RoleForAdminCode(adminCode, s.cfg.Auth.AdminCode)
	_, err := services.RegisterUser(r.Context(), name, email, password, role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRegisterValidation):
			s.renderRegister(w, r, "Name, email and password are required.")
		case errors.Is(err, db.ErrUniqueViolation):
			s.renderRegister(w, r, "That email address is already registered.")
		default:
			s.serverError(w, r, err)
		}
		return
	}
	s.addFlash(w, r, "success", "Account created. Please log in.")
	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}

func (s *Server) renderRegister(w http.ResponseWriter, r *http.Request, errMsg string) {
	s.render(w, r, http.StatusOK, "register.html", map[string]any{
		"Title": "Create Account",
		"Error": errMsg,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.clearSession(w, r); err != nil {
		s.log.WithError(err).Warn("destroying session failed")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
