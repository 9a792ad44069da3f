package web

import (
	"net/http"

	"kopikoni/services"
)

// signatureCategory is the category featured on the dashboard next to the
// latest items.
const signatureCategory = "Coffee"

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := s.currentUser(r)

	popular, err := services.ListLatestMenuItems(ctx, 4)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	signature, err := services.ListMenuItemsByCategory(ctx, signatureCategory, 4)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	latestID, latestStatus, err := services.LatestOrderStatus(ctx, user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "dashboard.html", map[string]any{
		"Title":             "KopiKoni Dashboard",
		"PopularItems":      popular,
		"SignatureItems":    signature,
		"SignatureCategory": signatureCategory,
		"LatestOrderID":     latestID,
		"LatestOrderStatus": latestStatus,
	})
}

func (s *Server) handleMenuAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := s.currentUser(r)

	grouped, err := services.ListActiveMenuGrouped(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	latestID, latestStatus, err := services.LatestOrderStatus(ctx, user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "menu_all.html", map[string]any{
		"Title":             "All Menu",
		"GroupedMenu":       grouped,
		"LatestOrderID":     latestID,
		"LatestOrderStatus": latestStatus,
	})
}
