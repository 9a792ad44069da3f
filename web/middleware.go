package web

import (
	"net/http"
	"time"

	"kopikoni/models"

	"github.com/sirupsen/logrus"
)

// classify derives the three-way role of the current request from the
// session: anonymous, customer or admin.
func (s *Server) classify(r *http.Request) models.Role {
	u := s.currentUser(r)
	if u == nil {
		return models.RoleAnonymous
	}
	if u.Role == models.RoleAdmin {
		return models.RoleAdmin
	}
	return models.RoleCustomer
}

func (s *Server) requireCustomer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.classify(r) != models.RoleCustomer {
			s.addFlash(w, r, "error", "Please log in as a customer to access that page.")
			http.Redirect(w, r, "/auth", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.classify(r) != models.RoleAdmin {
			s.addFlash(w, r, "error", "Admin access required.")
			http.Redirect(w, r, "/auth", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}
