package services

import (
	"context"
	"errors"
	"fmt"

	"kopikoni/db"
	"kopikoni/models"
)

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusCompleted  = "Completed"
	OrderStatusCancelled  = "Cancelled"
)

var (
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// IsValidStatus reports whether s is one of the four known status strings.
func IsValidStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ValidStatusTransition reports whether an order may move from -> to.
// Completed and Cancelled are terminal.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case OrderStatusPending:
		return to == OrderStatusProcessing || to == OrderStatusCancelled
	case OrderStatusProcessing:
		return to == OrderStatusCompleted || to == OrderStatusCancelled
	}
	return false
}

// UpdateOrderStatus moves the order to newStatus after validating both the
// status string and the transition. The row is untouched on rejection.
func UpdateOrderStatus(ctx context.Context, orderID int64, newStatus string) error {
	if !IsValidStatus(newStatus) {
		return ErrInvalidStatus
	}
	var current string
	err := db.Pool.QueryRow(ctx, `SELECT status FROM orders WHERE order_id = $1`, orderID).Scan(&current)
	if err != nil {
		return fmt.Errorf("load order %d: %w", orderID, db.Classify(err))
	}
	if !ValidStatusTransition(current, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, newStatus)
	}
	// Guard on the old status so a concurrent admin update can not slip an
	// illegal transition through.
	_, err = db.Pool.Exec(ctx, `
		UPDATE orders SET status = $1 WHERE order_id = $2 AND status = $3`,
		newStatus, orderID, current,
	)
	return err
}

// GetOrder returns the order row without its items.
func GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var o models.Order
	var proof *string
	err := db.Pool.QueryRow(ctx, `
		SELECT o.order_id, o.user_id, o.order_date, o.total_amount, o.status,
		       o.customer_name, o.customer_address, o.payment_method_id, o.payment_proof,
		       pm.method_name
		FROM orders o
		JOIN payment_methods pm ON o.payment_method_id = pm.method_id
		WHERE o.order_id = $1`,
		orderID,
	).Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &o.Status,
		&o.CustomerName, &o.CustomerAddress, &o.PaymentMethodID, &proof, &o.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderID, db.Classify(err))
	}
	if proof != nil {
		o.PaymentProof = *proof
	}
	return &o, nil
}

// ListOrdersByUser returns the user's orders newest first, each with its
// line items (menu name and image joined in).
func ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT o.order_id, o.user_id, o.order_date, o.total_amount, o.status,
		       o.customer_name, o.customer_address, o.payment_method_id, o.payment_proof,
		       pm.method_name
		FROM orders o
		JOIN payment_methods pm ON o.payment_method_id = pm.method_id
		WHERE o.user_id = $1
		ORDER BY o.order_date DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := attachOrderItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllOrders returns one admin page of orders with their items, ordered
// by status priority (Pending first, Cancelled last) then newest first.
func ListAllOrders(ctx context.Context, page, limit int) ([]models.Order, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}
	offset := (page - 1) * limit
	rows, err := db.Pool.Query(ctx, `
		SELECT o.order_id, o.user_id, o.order_date, o.total_amount, o.status,
		       o.customer_name, o.customer_address, o.payment_method_id, o.payment_proof,
		       pm.method_name
		FROM orders o
		JOIN payment_methods pm ON o.payment_method_id = pm.method_id
		ORDER BY
			CASE o.status
				WHEN 'Pending' THEN 1
				WHEN 'Processing' THEN 2
				WHEN 'Completed' THEN 3
				WHEN 'Cancelled' THEN 4
			END,
			o.order_date DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if err := attachOrderItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func CountOrders(ctx context.Context) (int, error) {
	var n int
	err := db.Pool.QueryRow(ctx, `SELECT COUNT(order_id) FROM orders`).Scan(&n)
	return n, err
}

// LatestOrderStatus returns the id and status of the user's most recent
// order for the sidebar widget, or (0, "") when the user has none.
func LatestOrderStatus(ctx context.Context, userID int64) (int64, string, error) {
	var id int64
	var status string
	err := db.Pool.QueryRow(ctx, `
		SELECT order_id, status FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC
		LIMIT 1`,
		userID,
	).Scan(&id, &status)
	if err != nil {
		if errors.Is(db.Classify(err), db.ErrNotFound) {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, status, nil
}

// DeleteOrder removes the order and its line items in one transaction and
// returns the payment-proof path (if any) so the caller can remove the file
// after the rows are gone.
func DeleteOrder(ctx context.Context, orderID int64) (string, error) {
	var proof *string
	err := db.Pool.QueryRow(ctx, `SELECT payment_proof FROM orders WHERE order_id = $1`, orderID).Scan(&proof)
	if err != nil {
		return "", fmt.Errorf("load order %d: %w", orderID, db.Classify(err))
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin delete order: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_item WHERE order_id = $1`, orderID); err != nil {
		return "", fmt.Errorf("delete order items: %w", db.Classify(err))
	}
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID); err != nil {
		return "", fmt.Errorf("delete order: %w", db.Classify(err))
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit delete order: %w", err)
	}
	if proof != nil {
		return *proof, nil
	}
	return "", nil
}

type orderRows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

func scanOrders(rows orderRows) ([]models.Order, error) {
	defer rows.Close()
	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var proof *string
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &o.Status,
			&o.CustomerName, &o.CustomerAddress, &o.PaymentMethodID, &proof, &o.PaymentMethod); err != nil {
			return nil, err
		}
		if proof != nil {
			o.PaymentProof = *proof
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// attachOrderItems loads the line items for every order in one query.
func attachOrderItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	byID := make(map[int64]*models.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT oi.order_id, oi.menu_id, m.name, COALESCE(m.image, ''), oi.quantity, oi.price_per_item
		FROM order_item oi
		JOIN menu_items m ON oi.menu_id = m.menu_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_item_id`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.OrderID, &line.MenuID, &line.MenuName, &line.MenuImage, &line.Quantity, &line.PricePerItem); err != nil {
			return err
		}
		if o, ok := byID[line.OrderID]; ok {
			o.Items = append(o.Items, line)
		}
	}
	return rows.Err()
}
