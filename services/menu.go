package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"kopikoni/db"
	"kopikoni/models"
)

var ErrMenuItemValidation = errors.New("menu item validation")

// ListMenuItems returns every menu item with its category name, for the
// admin management page.
func ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT m.menu_id, m.name, m.price, m.category_id, COALESCE(c.category_name, ''),
		       m.description, COALESCE(m.image, ''), m.is_active
		FROM menu_items m
		LEFT JOIN categories c ON m.category_id = c.category_id
		ORDER BY m.name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.CategoryID, &it.Category,
			&it.Description, &it.Image, &it.IsActive); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListActiveMenuGrouped returns the active menu grouped per category, with
// a slug per category for in-page anchors. Categories without active items
// are included with an empty item list.
func ListActiveMenuGrouped(ctx context.Context) ([]models.CategoryMenu, error) {
	categories, err := ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT m.menu_id, m.name, m.price, m.category_id, m.description, COALESCE(m.image, '')
		FROM menu_items m
		WHERE m.is_active
		ORDER BY m.name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byCategory := make(map[int64][]models.MenuItem)
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.CategoryID, &it.Description, &it.Image); err != nil {
			return nil, err
		}
		it.IsActive = true
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	grouped := make([]models.CategoryMenu, 0, len(categories))
	for _, c := range categories {
		grouped = append(grouped, models.CategoryMenu{
			CategoryID: c.ID,
			Name:       c.Name,
			Slug:       Slugify(c.Name),
			Items:      byCategory[c.ID],
		})
	}
	return grouped, nil
}

// ListLatestMenuItems returns the newest active items for the dashboard.
func ListLatestMenuItems(ctx context.Context, limit int) ([]models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT m.menu_id, m.name, m.price, m.category_id, COALESCE(c.category_name, ''),
		       m.description, COALESCE(m.image, '')
		FROM menu_items m
		LEFT JOIN categories c ON m.category_id = c.category_id
		WHERE m.is_active
		ORDER BY m.menu_id DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.CategoryID, &it.Category, &it.Description, &it.Image); err != nil {
			return nil, err
		}
		it.IsActive = true
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListMenuItemsByCategory returns the active items of the named category,
// for the dashboard strip. An unknown category name yields an empty slice.
func ListMenuItemsByCategory(ctx context.Context, categoryName string, limit int) ([]models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT m.menu_id, m.name, m.price, m.category_id, c.category_name,
		       m.description, COALESCE(m.image, '')
		FROM menu_items m
		JOIN categories c ON m.category_id = c.category_id
		WHERE m.is_active AND c.category_name = $1
		ORDER BY m.name
		LIMIT $2`,
		categoryName, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var it models.MenuItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.CategoryID, &it.Category, &it.Description, &it.Image); err != nil {
			return nil, err
		}
		it.IsActive = true
		items = append(items, it)
	}
	return items, rows.Err()
}

func GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	var it models.MenuItem
	err := db.Pool.QueryRow(ctx, `
		SELECT m.menu_id, m.name, m.price, m.category_id, COALESCE(c.category_name, ''),
		       m.description, COALESCE(m.image, ''), m.is_active
		FROM menu_items m
		LEFT JOIN categories c ON m.category_id = c.category_id
		WHERE m.menu_id = $1`,
		id,
	).Scan(&it.ID, &it.Name, &it.Price, &it.CategoryID, &it.Category, &it.Description, &it.Image, &it.IsActive)
	if err != nil {
		return nil, fmt.Errorf("get menu item %d: %w", id, db.Classify(err))
	}
	return &it, nil
}

func AddMenuItem(ctx context.Context, item models.MenuItem) (int64, error) {
	if err := validateMenuItem(item); err != nil {
		return 0, err
	}
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO menu_items (name, price, category_id, description, image, is_active)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING menu_id`,
		item.Name, item.Price, item.CategoryID, item.Description, item.Image, item.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add menu item: %w", db.Classify(err))
	}
	return id, nil
}

// UpdateMenuItem overwrites the item. An empty Image keeps the stored path,
// so editing without a new upload does not drop the picture. Returns the
// previous image path when it was replaced, for file cleanup.
func UpdateMenuItem(ctx context.Context, item models.MenuItem) (string, error) {
	if err := validateMenuItem(item); err != nil {
		return "", err
	}
	current, err := GetMenuItem(ctx, item.ID)
	if err != nil {
		return "", err
	}
	image := item.Image
	if image == "" {
		image = current.Image
	}
	_, err = db.Pool.Exec(ctx, `
		UPDATE menu_items
		SET name = $1, price = $2, category_id = $3, description = $4, image = NULLIF($5, ''), is_active = $6
		WHERE menu_id = $7`,
		item.Name, item.Price, item.CategoryID, item.Description, image, item.IsActive, item.ID,
	)
	if err != nil {
		return "", fmt.Errorf("update menu item %d: %w", item.ID, db.Classify(err))
	}
	if item.Image != "" && current.Image != "" && current.Image != item.Image {
		return current.Image, nil
	}
	return "", nil
}

// DeleteMenuItem removes the item and returns its image path for cleanup.
// Deletion is blocked (ErrForeignKeyViolation) when order lines reference
// the item; order history keeps its menu references.
func DeleteMenuItem(ctx context.Context, id int64) (string, error) {
	current, err := GetMenuItem(ctx, id)
	if err != nil {
		return "", err
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM menu_items WHERE menu_id = $1`, id); err != nil {
		return "", fmt.Errorf("delete menu item %d: %w", id, db.Classify(err))
	}
	return current.Image, nil
}

func validateMenuItem(item models.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrMenuItemValidation)
	}
	if item.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrMenuItemValidation)
	}
	if item.CategoryID == 0 {
		return fmt.Errorf("%w: category is required", ErrMenuItemValidation)
	}
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9-]+`)

// Slugify turns a category name into an anchor id ("Main Course" ->
// "main-course").
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	return slugStrip.ReplaceAllString(s, "")
}
