package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kopikoni/db"
	"kopikoni/models"
	"kopikoni/services"

	"github.com/gorilla/mux"
)

// parseQuantity applies the cart quantity policy: a missing field defaults
// to 1, anything present must parse as a positive integer.
func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	qty, err := strconv.Atoi(raw)
	if err != nil || qty < 1 {
		return 0, services.ErrInvalidQuantity
	}
	return qty, nil
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.addFlash(w, r, "error", "Invalid form submission.")
		s.redirectBack(w, r)
		return
	}
	menuID, err := strconv.ParseInt(r.PostFormValue("menu_id"), 10, 64)
	if err != nil {
		s.addFlash(w, r, "error", "Invalid menu selection.")
		s.redirectBack(w, r)
		return
	}
	qty, err := parseQuantity(r.PostFormValue("quantity"))
	if err != nil {
		s.addFlash(w, r, "error", "Quantity must be a positive number.")
		s.redirectBack(w, r)
		return
	}

	item, err := services.GetMenuItem(r.Context(), menuID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.addFlash(w, r, "error", "That menu item does not exist.")
			s.redirectBack(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}

	cart, err := services.AddItem(s.getCart(r), *item, qty)
	if err != nil {
		s.addFlash(w, r, "error", "Quantity must be a positive number.")
		s.redirectBack(w, r)
		return
	}
	if err := s.saveCart(w, r, cart); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.addFlash(w, r, "success", item.Name+" added to your cart.")
	s.redirectBack(w, r)
}

func (s *Server) handleCartView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := s.currentUser(r)

	methods, err := services.ListActivePaymentMethods(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	latestID, latestStatus, err := services.LatestOrderStatus(ctx, user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	cart := s.getCart(r)
	data := map[string]any{
		"Title":             "Your Cart",
		"PaymentMethods":    methods,
		"LatestOrderID":     latestID,
		"LatestOrderStatus": latestStatus,
	}
	if !cart.IsEmpty() {
		data["Cart"] = cart
	}
	s.render(w, r, http.StatusOK, "cart.html", data)
}

func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.addFlash(w, r, "error", "Invalid form submission.")
		http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
		return
	}
	menuID, err := strconv.ParseInt(r.PostFormValue("menu_id"), 10, 64)
	if err != nil {
		s.addFlash(w, r, "error", "Invalid menu selection.")
		http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
		return
	}
	qty, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		s.addFlash(w, r, "error", "Quantity must be a positive number.")
		http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
		return
	}

	cart, err := services.UpdateQuantity(s.getCart(r), menuID, qty)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuantity):
			s.addFlash(w, r, "error", "Quantity must be at least 1. Use remove to drop an item.")
		case errors.Is(err, services.ErrCartLineNotFound):
			s.addFlash(w, r, "error", "That item is not in your cart.")
		default:
			s.serverError(w, r, err)
			return
		}
		http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
		return
	}
	if err := s.saveCart(w, r, cart); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	menuID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
		return
	}
	cart := services.RemoveItem(s.getCart(r), menuID)
	if err := s.saveCart(w, r, cart); err != nil {
		s.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := s.currentUser(r)

	if err := r.ParseMultipartForm(s.cfg.Upload.MaxSizeBytes + 1<<20); err != nil {
		s.addFlash(w, r, "error", "Invalid checkout form.")
		http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
		return
	}

	cart := s.getCart(r)
	if cart.IsEmpty() {
		s.addFlash(w, r, "error", "Your cart is empty. Nothing to check out.")
		http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
		return
	}

	methodID, err := strconv.ParseInt(r.PostFormValue("payment_method_id"), 10, 64)
	if err != nil {
		s.addFlash(w, r, "error", "Please choose a payment method.")
		http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
		return
	}
	method, err := services.GetPaymentMethod(ctx, methodID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.addFlash(w, r, "error", "Please choose a valid payment method.")
			http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
			return
		}
		s.serverError(w, r, err)
		return
	}

	// Optional payment proof; mandatory for non-cash methods, which
	// Checkout enforces before touching the database.
	proofPath := ""
	if file, fh, err := r.FormFile("payment_proof"); err == nil {
		file.Close()
		proofPath, err = s.saveImage(fh, "proof")
		if err != nil {
			if errors.Is(err, ErrBadUpload) {
				s.addFlash(w, r, "error", err.Error())
				http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
				return
			}
			s.serverError(w, r, err)
			return
		}
	}

	input := models.CreateOrderInput{
		UserID:          user.ID,
		CustomerName:    r.PostFormValue("customer_name"),
		CustomerAddress: r.PostFormValue("customer_address"),
		PaymentMethodID: method.ID,
		PaymentProof:    proofPath,
	}
	orderID, err := services.Checkout(ctx, cart, input, *method)
	if err != nil {
		// The order was not created; drop the orphaned proof file.
		s.removeUpload(proofPath)
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			s.addFlash(w, r, "error", "Your cart is empty. Nothing to check out.")
		case errors.Is(err, services.ErrMissingCustomer):
			s.addFlash(w, r, "error", "Name and delivery address are required.")
		case errors.Is(err, services.ErrProofRequired):
			s.addFlash(w, r, "error", "Please attach a payment proof for "+method.Name+".")
		default:
			s.log.WithError(err).WithField("user_id", user.ID).Error("checkout failed")
			s.addFlash(w, r, "error", "Checkout failed. Your cart is untouched, please try again.")
		}
		http.Redirect(w, r, "/order/cart", http.StatusSeeOther)
		return
	}

	// Order is committed: clear the cart and tell the admin.
	if err := s.saveCart(w, r, nil); err != nil {
		s.log.WithError(err).Warn("clearing cart after checkout failed")
	}
	s.notifier.OrderPlaced(&models.Order{
		ID:            orderID,
		CustomerName:  input.CustomerName,
		TotalAmount:   cart.TotalPrice,
		PaymentMethod: method.Name,
	})
	s.addFlash(w, r, "success", "Your order has been placed!")
	http.Redirect(w, r, "/order/history", http.StatusSeeOther)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := s.currentUser(r)

	orders, err := services.ListOrdersByUser(ctx, user.ID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	data := map[string]any{
		"Title":  "Order History",
		"Orders": orders,
	}
	if len(orders) > 0 {
		data["LatestOrderID"] = orders[0].ID
		data["LatestOrderStatus"] = orders[0].Status
	}
	s.render(w, r, http.StatusOK, "history.html", data)
}

// redirectBack returns to the referring page, falling back to the
// dashboard. Add-to-cart buttons live on several pages.
func (s *Server) redirectBack(w http.ResponseWriter, r *http.Request) {
	ref := r.Referer()
	if ref == "" {
		ref = "/dashboard"
	}
	http.Redirect(w, r, ref, http.StatusSeeOther)
}
