package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kopikoni/db"
	"kopikoni/models"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrMissingCustomer = errors.New("customer name and address are required")
	ErrProofRequired   = errors.New("payment proof is required for non-cash payment")
)

// Checkout materializes the cart as one order plus its line items inside a
// single transaction. Unit prices come from the cart lines, not from the
// catalog, so a repriced menu item never alters an order already placed.
// Precondition failures return before any statement is issued; on any
// failure mid-transaction everything is rolled back and the caller keeps
// the cart.
func Checkout(ctx context.Context, cart *Cart, input models.CreateOrderInput, method models.PaymentMethod) (int64, error) {
	if cart.IsEmpty() {
		return 0, ErrEmptyCart
	}
	if strings.TrimSpace(input.CustomerName) == "" || strings.TrimSpace(input.CustomerAddress) == "" {
		return 0, ErrMissingCustomer
	}
	if !method.IsCash && input.PaymentProof == "" {
		return 0, ErrProofRequired
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, order_date, total_amount, status, customer_name, customer_address, payment_method_id, payment_proof)
		VALUES ($1, now(), $2, 'Pending', $3, $4, $5, NULLIF($6, ''))
		RETURNING order_id`,
		input.UserID, cart.TotalPrice, input.CustomerName, input.CustomerAddress, method.ID, input.PaymentProof,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", db.Classify(err))
	}

	for _, line := range cart.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_item (order_id, menu_id, quantity, price_per_item)
			VALUES ($1, $2, $3, $4)`,
			orderID, line.MenuID, line.Qty, line.Price,
		)
		if err != nil {
			return 0, fmt.Errorf("insert order item %d: %w", line.MenuID, db.Classify(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit checkout: %w", err)
	}
	return orderID, nil
}
