package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kopikoni/db"
	"kopikoni/models"
)

var ErrCategoryNameRequired = errors.New("category name must not be empty")

func ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT category_id, category_name FROM categories ORDER BY category_name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := db.Pool.QueryRow(ctx, `
		SELECT category_id, category_name FROM categories WHERE category_id = $1`, id,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, db.Classify(err))
	}
	return &c, nil
}

func AddCategory(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrCategoryNameRequired
	}
	var id int64
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO categories (category_name) VALUES ($1) RETURNING category_id`, name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add category: %w", db.Classify(err))
	}
	return id, nil
}

func UpdateCategory(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrCategoryNameRequired
	}
	tag, err := db.Pool.Exec(ctx, `
		UPDATE categories SET category_name = $1 WHERE category_id = $2`, name, id,
	)
	if err != nil {
		return fmt.Errorf("update category %d: %w", id, db.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// DeleteCategory removes the category and its menu items in one
// transaction: items first, then the category. The delete fails with
// ErrForeignKeyViolation when any of the items appears in an order, since
// order history must keep its menu references. Returns the image paths of
// the deleted items for file cleanup.
func DeleteCategory(ctx context.Context, id int64) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT image FROM menu_items WHERE category_id = $1 AND image IS NOT NULL`, id,
	)
	if err != nil {
		return nil, err
	}
	var images []string
	for rows.Next() {
		var img string
		if err := rows.Scan(&img); err != nil {
			rows.Close()
			return nil, err
		}
		images = append(images, img)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin delete category: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE category_id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete category items: %w", db.Classify(err))
	}
	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE category_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("delete category %d: %w", id, db.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return nil, db.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delete category: %w", err)
	}
	return images, nil
}
