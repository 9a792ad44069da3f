package services

import (
	"context"
	"errors"
	"testing"

	"kopikoni/db"
	"kopikoni/models"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var (
	cashMethod     = models.PaymentMethod{ID: 1, Name: "COD", IsCash: true, IsActive: true}
	transferMethod = models.PaymentMethod{ID: 2, Name: "Bank Transfer", IsActive: true}
)

func scenarioCart(t *testing.T) *Cart {
	t.Helper()
	cart, err := AddItem(nil, models.MenuItem{ID: 1, Name: "Kopi Susu", Price: 20000}, 2)
	require.NoError(t, err)
	cart, err = AddItem(cart, models.MenuItem{ID: 2, Name: "Roti Bakar", Price: 15000}, 1)
	require.NoError(t, err)
	return cart
}

func checkoutInput() models.CreateOrderInput {
	return models.CreateOrderInput{
		UserID:          42,
		CustomerName:    "Budi",
		CustomerAddress: "Jl. Melati 5",
		PaymentMethodID: cashMethod.ID,
	}
}

func withMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		mock.Close()
		db.Pool = nil
	})
	db.Pool = mock
	return mock
}

func TestCheckoutEmptyCartTouchesNoDatabase(t *testing.T) {
	mock := withMockPool(t)

	for _, cart := range []*Cart{nil, {}} {
		_, err := Checkout(context.Background(), cart, checkoutInput(), cashMethod)
		require.ErrorIs(t, err, ErrEmptyCart)
	}
	require.NoError(t, mock.ExpectationsWereMet(), "empty-cart checkout must not issue statements")
}

func TestCheckoutPreconditionsTouchNoDatabase(t *testing.T) {
	mock := withMockPool(t)
	cart := scenarioCart(t)

	noName := checkoutInput()
	noName.CustomerName = "  "
	_, err := Checkout(context.Background(), cart, noName, cashMethod)
	require.ErrorIs(t, err, ErrMissingCustomer)

	noProof := checkoutInput()
	noProof.PaymentMethodID = transferMethod.ID
	_, err = Checkout(context.Background(), cart, noProof, transferMethod)
	require.ErrorIs(t, err, ErrProofRequired)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutSuccess(t *testing.T) {
	mock := withMockPool(t)
	cart := scenarioCart(t)
	input := checkoutInput()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(input.UserID, int64(55000), input.CustomerName, input.CustomerAddress, cashMethod.ID, "").
		WillReturnRows(pgxmock.NewRows([]string{"order_id"}).AddRow(int64(301)))
	mock.ExpectExec(`INSERT INTO order_item`).
		WithArgs(int64(301), int64(1), 2, int64(20000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO order_item`).
		WithArgs(int64(301), int64(2), 1, int64(15000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	orderID, err := Checkout(context.Background(), cart, input, cashMethod)
	require.NoError(t, err)
	require.Equal(t, int64(301), orderID)
	require.NoError(t, mock.ExpectationsWereMet())

	// the cart value is untouched; clearing it is the caller's move
	require.Equal(t, int64(55000), cart.TotalPrice)
}

// A failure between the order insert and a line insert must roll everything
// back: no partial order may ever be visible.
func TestCheckoutRollsBackOnLineInsertFailure(t *testing.T) {
	mock := withMockPool(t)
	cart := scenarioCart(t)
	input := checkoutInput()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(input.UserID, int64(55000), input.CustomerName, input.CustomerAddress, cashMethod.ID, "").
		WillReturnRows(pgxmock.NewRows([]string{"order_id"}).AddRow(int64(301)))
	mock.ExpectExec(`INSERT INTO order_item`).
		WithArgs(int64(301), int64(1), 2, int64(20000)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := Checkout(context.Background(), cart, input, cashMethod)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet(), "rollback must follow the failed insert")

	// the cart survives a failed checkout
	require.Equal(t, 3, cart.TotalQty)
	require.Equal(t, int64(55000), cart.TotalPrice)
}

func TestCheckoutRollsBackOnOrderInsertFailure(t *testing.T) {
	mock := withMockPool(t)
	cart := scenarioCart(t)
	input := checkoutInput()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(input.UserID, int64(55000), input.CustomerName, input.CustomerAddress, cashMethod.ID, "").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := Checkout(context.Background(), cart, input, cashMethod)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckoutProofAcceptedForNonCash(t *testing.T) {
	mock := withMockPool(t)
	cart := scenarioCart(t)
	input := checkoutInput()
	input.PaymentMethodID = transferMethod.ID
	input.PaymentProof = "/uploads/proof/abc.jpg"

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(input.UserID, int64(55000), input.CustomerName, input.CustomerAddress, transferMethod.ID, input.PaymentProof).
		WillReturnRows(pgxmock.NewRows([]string{"order_id"}).AddRow(int64(302)))
	mock.ExpectExec(`INSERT INTO order_item`).
		WithArgs(int64(302), int64(1), 2, int64(20000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO order_item`).
		WithArgs(int64(302), int64(2), 1, int64(15000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	orderID, err := Checkout(context.Background(), cart, input, transferMethod)
	require.NoError(t, err)
	require.Equal(t, int64(302), orderID)
	require.NoError(t, mock.ExpectationsWereMet())
}
