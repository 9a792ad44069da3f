package web

import (
	"encoding/gob"
	"encoding/json"
	"net/http"

	"kopikoni/models"
	"kopikoni/services"
)

const sessionName = "kopikoni_session"

const (
	sessionKeyUser = "user"
	sessionKeyCart = "cart"
)

// Flash is a one-shot notice rendered on the next page and then discarded.
type Flash struct {
	Kind string // "success" or "error"
	Text string
}

func init() {
	gob.Register(models.SessionUser{})
	gob.Register(Flash{})
}

// currentUser returns the authenticated user from the session, or nil. A
// bad or missing cookie just reads as an anonymous session.
func (s *Server) currentUser(r *http.Request) *models.SessionUser {
	sess, _ := s.store.Get(r, sessionName)
	if v, ok := sess.Values[sessionKeyUser].(models.SessionUser); ok {
		return &v
	}
	return nil
}

func (s *Server) setUser(w http.ResponseWriter, r *http.Request, u models.SessionUser) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Values[sessionKeyUser] = u
	return sess.Save(r, w)
}

// clearSession drops everything: user, cart, pending flashes.
func (s *Server) clearSession(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, sessionName)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// getCart decodes the session cart. A missing or corrupt cart comes back as
// nil (no cart).
func (s *Server) getCart(r *http.Request) *services.Cart {
	sess, _ := s.store.Get(r, sessionName)
	raw, ok := sess.Values[sessionKeyCart].(string)
	if !ok || raw == "" {
		return nil
	}
	var cart services.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.log.WithError(err).Warn("dropping undecodable session cart")
		return nil
	}
	if cart.IsEmpty() {
		return nil
	}
	return &cart
}

// saveCart stores the cart as JSON in the session; a nil cart removes it.
func (s *Server) saveCart(w http.ResponseWriter, r *http.Request, cart *services.Cart) error {
	sess, _ := s.store.Get(r, sessionName)
	if cart.IsEmpty() {
		delete(sess.Values, sessionKeyCart)
		return sess.Save(r, w)
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	sess.Values[sessionKeyCart] = string(raw)
	return sess.Save(r, w)
}

func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, kind, text string) {
	sess, _ := s.store.Get(r, sessionName)
	sess.AddFlash(Flash{Kind: kind, Text: text})
	if err := sess.Save(r, w); err != nil {
		s.log.WithError(err).Warn("saving flash failed")
	}
}

// popFlash returns the pending flash (if any) and clears it.
func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	sess, _ := s.store.Get(r, sessionName)
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	// Flashes() mutated the session; persist the removal.
	if err := sess.Save(r, w); err != nil {
		s.log.WithError(err).Warn("clearing flash failed")
	}
	if f, ok := flashes[0].(Flash); ok {
		return &f
	}
	return nil
}
