package services

import (
	"context"
	"fmt"

	"kopikoni/db"
	"kopikoni/models"
)

// ListActivePaymentMethods returns the methods offered on the cart page.
func ListActivePaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT method_id, method_name, is_cash, is_active
		FROM payment_methods
		WHERE is_active
		ORDER BY method_name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.IsCash, &m.IsActive); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func GetPaymentMethod(ctx context.Context, id int64) (*models.PaymentMethod, error) {
	var m models.PaymentMethod
	err := db.Pool.QueryRow(ctx, `
		SELECT method_id, method_name, is_cash, is_active
		FROM payment_methods WHERE method_id = $1`,
		id,
	).Scan(&m.ID, &m.Name, &m.IsCash, &m.IsActive)
	if err != nil {
		return nil, fmt.Errorf("get payment method %d: %w", id, db.Classify(err))
	}
	return &m, nil
}
