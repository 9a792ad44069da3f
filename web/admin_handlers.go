package web

import (
	"errors"
	"net/http"
	"strconv"

	"kopikoni/db"
	"kopikoni/models"
	"kopikoni/services"

	"github.com/gorilla/mux"
)

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

/* menu management */

func (s *Server) handleAdminMenu(w http.ResponseWriter, r *http.Request) {
	items, err := services.ListMenuItems(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_menu.html", map[string]any{
		"Title":     "Menu Management",
		"MenuItems": items,
	})
}

func (s *Server) handleAdminMenuNew(w http.ResponseWriter, r *http.Request) {
	categories, err := services.ListCategories(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_menu_form.html", map[string]any{
		"Title":      "New Menu Item",
		"Categories": categories,
	})
}

// parseMenuForm reads the shared create/edit form. The image is optional on
// both paths.
func (s *Server) parseMenuForm(w http.ResponseWriter, r *http.Request) (models.MenuItem, bool) {
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxSizeBytes + 1<<20); err != nil {
		s.addFlash(w, r, "error", "Invalid form submission.")
		return models.MenuItem{}, false
	}
	price, _ := strconv.ParseInt(r.PostFormValue("price"), 10, 64)
	categoryID, _ := strconv.ParseInt(r.PostFormValue("category_id"), 10, 64)
	item := models.MenuItem{
		Name:        r.PostFormValue("name"),
		Price:       price,
		CategoryID:  categoryID,
		Description: r.PostFormValue("description"),
		IsActive:    r.PostFormValue("is_active") != "",
	}
	if file, fh, err := r.FormFile("image"); err == nil {
		file.Close()
		path, err := s.saveImage(fh, "menu")
		if err != nil {
			if errors.Is(err, ErrBadUpload) {
				s.addFlash(w, r, "error", err.Error())
				return models.MenuItem{}, false
			}
			s.serverError(w, r, err)
			return models.MenuItem{}, false
		}
		item.Image = path
	}
	return item, true
}

func (s *Server) handleAdminMenuCreate(w http.ResponseWriter, r *http.Request) {
	item, ok := s.parseMenuForm(w, r)
	if !ok {
		http.Redirect(w, r, "/admin/menu/new", http.StatusSeeOther)
		return
	}
	if _, err := services.AddMenuItem(r.Context(), item); err != nil {
		s.removeUpload(item.Image)
		switch {
		case errors.Is(err, services.ErrMenuItemValidation):
			s.addFlash(w, r, "error", "Name, positive price and category are required.")
			http.Redirect(w, r, "/admin/menu/new", http.StatusSeeOther)
		case errors.Is(err, db.ErrForeignKeyViolation):
			s.addFlash(w, r, "error", "The selected category no longer exists.")
			http.Redirect(w, r, "/admin/menu/new", http.StatusSeeOther)
		default:
			s.serverError(w, r, err)
		}
		return
	}
	s.addFlash(w, r, "success", "Menu item created.")
	http.Redirect(w, r, "/admin/menu", http.StatusSeeOther)
}

func (s *Server) handleAdminMenuEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	item, err := services.GetMenuItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.handleNotFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}
	categories, err := services.ListCategories(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_menu_form.html", map[string]any{
		"Title":      "Edit Menu: " + item.Name,
		"MenuItem":   item,
		"Categories": categories,
	})
}

func (s *Server) handleAdminMenuEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	item, ok := s.parseMenuForm(w, r)
	if !ok {
		http.Redirect(w, r, "/admin/menu", http.StatusSeeOther)
		return
	}
	item.ID = id
	oldImage, err := services.UpdateMenuItem(r.Context(), item)
	if err != nil {
		s.removeUpload(item.Image)
		switch {
		case errors.Is(err, db.ErrNotFound):
			s.handleNotFound(w, r)
		case errors.Is(err, services.ErrMenuItemValidation):
			s.addFlash(w, r, "error", "Name, positive price and category are required.")
			http.Redirect(w, r, "/admin/menu", http.StatusSeeOther)
		default:
			s.serverError(w, r, err)
		}
		return
	}
	s.removeUpload(oldImage)
	s.addFlash(w, r, "success", "Menu item updated.")
	http.Redirect(w, r, "/admin/menu", http.StatusSeeOther)
}

func (s *Server) handleAdminMenuDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	image, err := services.DeleteMenuItem(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			s.addFlash(w, r, "error", "Menu item not found.")
		case errors.Is(err, db.ErrForeignKeyViolation):
			s.addFlash(w, r, "error", "This item has been ordered before and cannot be deleted. Deactivate it instead.")
		default:
			s.serverError(w, r, err)
			return
		}
		http.Redirect(w, r, "/admin/menu", http.StatusSeeOther)
		return
	}
	s.removeUpload(image)
	s.addFlash(w, r, "success", "Menu item deleted.")
	http.Redirect(w, r, "/admin/menu", http.StatusSeeOther)
}

/* category management */

func (s *Server) handleAdminCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := services.ListCategories(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_categories.html", map[string]any{
		"Title":      "Category Management",
		"Categories": categories,
	})
}

func (s *Server) handleAdminCategoryNew(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "admin_category_form.html", map[string]any{
		"Title": "New Category",
	})
}

func (s *Server) handleAdminCategoryCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.addFlash(w, r, "error", "Invalid form submission.")
		http.Redirect(w, r, "/admin/categories/new", http.StatusSeeOther)
		return
	}
	_, err := services.AddCategory(r.Context(), r.PostFormValue("category_name"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNameRequired):
			s.addFlash(w, r, "error", "Category name must not be empty.")
		case errors.Is(err, db.ErrUniqueViolation):
			s.addFlash(w, r, "error", "A category with that name already exists.")
		default:
			s.serverError(w, r, err)
			return
		}
		http.Redirect(w, r, "/admin/categories/new", http.StatusSeeOther)
		return
	}
	s.addFlash(w, r, "success", "Category created.")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (s *Server) handleAdminCategoryEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	category, err := services.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.handleNotFound(w, r)
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_category_form.html", map[string]any{
		"Title":    "Edit Category: " + category.Name,
		"Category": category,
	})
}

func (s *Server) handleAdminCategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.addFlash(w, r, "error", "Invalid form submission.")
		http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
		return
	}
	err = services.UpdateCategory(r.Context(), id, r.PostFormValue("category_name"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNameRequired):
			s.addFlash(w, r, "error", "Category name must not be empty.")
		case errors.Is(err, db.ErrUniqueViolation):
			s.addFlash(w, r, "error", "Another category already uses that name.")
		case errors.Is(err, db.ErrNotFound):
			s.addFlash(w, r, "error", "Category not found.")
		default:
			s.serverError(w, r, err)
			return
		}
	} else {
		s.addFlash(w, r, "success", "Category updated.")
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (s *Server) handleAdminCategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	images, err := services.DeleteCategory(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			s.addFlash(w, r, "error", "Category not found.")
		case errors.Is(err, db.ErrForeignKeyViolation):
			s.addFlash(w, r, "error", "This category has items that were ordered before and cannot be deleted.")
		default:
			s.serverError(w, r, err)
			return
		}
		http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
		return
	}
	for _, img := range images {
		s.removeUpload(img)
	}
	s.addFlash(w, r, "success", "Category and its menu items deleted.")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

/* order management */

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 5
	}

	orders, err := services.ListAllOrders(ctx, page, limit)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	total, err := services.CountOrders(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	totalPages := (total + limit - 1) / limit

	s.render(w, r, http.StatusOK, "admin_orders.html", map[string]any{
		"Title":       "Order Management",
		"Orders":      orders,
		"CurrentPage": page,
		"Limit":       limit,
		"TotalPages":  totalPages,
		"TotalCount":  total,
		"PrevPage":    page - 1,
		"NextPage":    page + 1,
		"Statuses": []string{
			services.OrderStatusPending,
			services.OrderStatusProcessing,
			services.OrderStatusCompleted,
			services.OrderStatusCancelled,
		},
	})
}

func (s *Server) handleAdminOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.addFlash(w, r, "error", "Invalid form submission.")
		http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
		return
	}
	newStatus := r.PostFormValue("new_status")
	err = services.UpdateOrderStatus(r.Context(), id, newStatus)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			s.addFlash(w, r, "error", "Unknown order status.")
		case errors.Is(err, services.ErrInvalidTransition):
			s.addFlash(w, r, "error", "That status change is not allowed.")
		case errors.Is(err, db.ErrNotFound):
			s.addFlash(w, r, "error", "Order not found.")
		default:
			s.serverError(w, r, err)
			return
		}
	} else {
		s.addFlash(w, r, "success", "Order status updated to "+newStatus+".")
	}
	http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
}

func (s *Server) handleAdminOrderDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	proof, err := services.DeleteOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.addFlash(w, r, "error", "Order not found.")
			http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.removeUpload(proof)
	s.addFlash(w, r, "success", "Order deleted.")
	http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
}
