package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"kopikoni/config"
	"kopikoni/notify"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pages rendered through the shared layout. Each page file defines a
// "content" block.
var pageNames = []string{
	"landing.html",
	"register.html",
	"dashboard.html",
	"menu_all.html",
	"cart.html",
	"history.html",
	"admin_menu.html",
	"admin_menu_form.html",
	"admin_categories.html",
	"admin_category_form.html",
	"admin_orders.html",
	"error.html",
}

type Server struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    *sessions.CookieStore
	notifier *notify.Notifier
	pages    map[string]*template.Template
}

func NewServer(cfg *config.Config, log *logrus.Logger, notifier *notify.Notifier) (*Server, error) {
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.Lifetime.Seconds()),
		HttpOnly: true,
	}

	funcs := template.FuncMap{
		"rupiah": formatRupiah,
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Server{
		cfg:      cfg,
		log:      log,
		store:    store,
		notifier: notifier,
		pages:    pages,
	}, nil
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequest)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	r.HandleFunc("/auth", s.handleLanding).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.handleRegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", s.handleLogout).Methods(http.MethodGet)

	r.HandleFunc("/dashboard", s.requireCustomer(s.handleDashboard)).Methods(http.MethodGet)
	r.HandleFunc("/menu/all", s.requireCustomer(s.handleMenuAll)).Methods(http.MethodGet)

	r.HandleFunc("/order/add", s.requireCustomer(s.handleCartAdd)).Methods(http.MethodPost)
	r.HandleFunc("/order/cart", s.requireCustomer(s.handleCartView)).Methods(http.MethodGet)
	r.HandleFunc("/order/update", s.requireCustomer(s.handleCartUpdate)).Methods(http.MethodPost)
	r.HandleFunc("/order/remove/{id:[0-9]+}", s.requireCustomer(s.handleCartRemove)).Methods(http.MethodPost)
	r.HandleFunc("/order/submit", s.requireCustomer(s.handleCheckout)).Methods(http.MethodPost)
	r.HandleFunc("/order/history", s.requireCustomer(s.handleHistory)).Methods(http.MethodGet)

	admin := r.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/menu", s.requireAdmin(s.handleAdminMenu)).Methods(http.MethodGet)
	admin.HandleFunc("/menu/new", s.requireAdmin(s.handleAdminMenuNew)).Methods(http.MethodGet)
	admin.HandleFunc("/menu", s.requireAdmin(s.handleAdminMenuCreate)).Methods(http.MethodPost)
	admin.HandleFunc("/menu/{id:[0-9]+}/edit", s.requireAdmin(s.handleAdminMenuEditForm)).Methods(http.MethodGet)
	admin.HandleFunc("/menu/{id:[0-9]+}/edit", s.requireAdmin(s.handleAdminMenuEdit)).Methods(http.MethodPost)
	admin.HandleFunc("/menu/{id:[0-9]+}/delete", s.requireAdmin(s.handleAdminMenuDelete)).Methods(http.MethodPost)

	admin.HandleFunc("/categories", s.requireAdmin(s.handleAdminCategories)).Methods(http.MethodGet)
	admin.HandleFunc("/categories/new", s.requireAdmin(s.handleAdminCategoryNew)).Methods(http.MethodGet)
	admin.HandleFunc("/categories", s.requireAdmin(s.handleAdminCategoryCreate)).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{id:[0-9]+}/edit", s.requireAdmin(s.handleAdminCategoryEditForm)).Methods(http.MethodGet)
	admin.HandleFunc("/categories/{id:[0-9]+}/edit", s.requireAdmin(s.handleAdminCategoryEdit)).Methods(http.MethodPost)
	admin.HandleFunc("/categories/{id:[0-9]+}/delete", s.requireAdmin(s.handleAdminCategoryDelete)).Methods(http.MethodPost)

	admin.HandleFunc("/orders", s.requireAdmin(s.handleAdminOrders)).Methods(http.MethodGet)
	admin.HandleFunc("/orders/update-status/{id:[0-9]+}", s.requireAdmin(s.handleAdminOrderStatus)).Methods(http.MethodPost)
	admin.HandleFunc("/orders/{id:[0-9]+}/delete", s.requireAdmin(s.handleAdminOrderDelete)).Methods(http.MethodPost)

	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.Upload.Dir))))

	r.NotFoundHandler = s.logRequest(http.HandlerFunc(s.handleNotFound))
	return r
}

// render executes the named page through the shared layout. data may be nil;
// User and Flash are always injected.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	t, ok := s.pages[page]
	if !ok {
		s.log.WithField("page", page).Error("unknown template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["User"]; !ok {
		data["User"] = s.currentUser(r)
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = s.popFlash(w, r)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		s.log.WithError(err).WithField("page", page).Error("render failed")
	}
}

// serverError logs the cause and renders a generic 500 page. No internal
// detail reaches the response.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("internal error")
	s.render(w, r, http.StatusInternalServerError, "error.html", map[string]any{
		"Title":   "Server Error",
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong on our side. Please try again.",
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "error.html", map[string]any{
		"Title":   "Not Found",
		"Status":  http.StatusNotFound,
		"Message": "The page you are looking for does not exist.",
	})
}

func formatRupiah(v int64) string {
	s := fmt.Sprintf("%d", v)
	n := len(s)
	if n <= 3 {
		return "Rp" + s
	}
	out := make([]byte, 0, n+n/3)
	lead := n % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
		if n > lead {
			out = append(out, '.')
		}
	}
	for i := lead; i < n; i += 3 {
		out = append(out, s[i:i+3]...)
		if i+3 < n {
			out = append(out, '.')
		}
	}
	return "Rp" + string(out)
}
