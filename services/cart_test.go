package services

import (
	"errors"
	"testing"

	"kopikoni/models"
)

var (
	itemA = models.MenuItem{ID: 1, Name: "Kopi Susu", Price: 20000, Image: "/uploads/menu/a.jpg"}
	itemB = models.MenuItem{ID: 2, Name: "Roti Bakar", Price: 15000}
)

func mustAdd(t *testing.T, cart *Cart, item models.MenuItem, qty int) *Cart {
	t.Helper()
	next, err := AddItem(cart, item, qty)
	if err != nil {
		t.Fatalf("AddItem(%s, %d): %v", item.Name, qty, err)
	}
	return next
}

func checkTotals(t *testing.T, cart *Cart) {
	t.Helper()
	if cart == nil {
		t.Fatal("nil cart")
	}
	var qty int
	var price int64
	for _, line := range cart.Lines {
		if line.LineTotal != line.Price*int64(line.Qty) {
			t.Errorf("line %d: LineTotal = %d, want %d", line.MenuID, line.LineTotal, line.Price*int64(line.Qty))
		}
		qty += line.Qty
		price += line.LineTotal
	}
	if cart.TotalQty != qty {
		t.Errorf("TotalQty = %d, want %d", cart.TotalQty, qty)
	}
	if cart.TotalPrice != price {
		t.Errorf("TotalPrice = %d, want %d", cart.TotalPrice, price)
	}
}

func TestAddItemAccumulates(t *testing.T) {
	cart := mustAdd(t, nil, itemA, 1)
	cart = mustAdd(t, cart, itemA, 2)
	if len(cart.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(cart.Lines))
	}
	if cart.Lines[0].Qty != 3 {
		t.Errorf("qty = %d, want 3", cart.Lines[0].Qty)
	}
	checkTotals(t, cart)

	// q1 then q2 must equal a single add of q1+q2
	once := mustAdd(t, nil, itemA, 3)
	if once.Lines[0] != cart.Lines[0] {
		t.Errorf("accumulated line %+v differs from single add %+v", cart.Lines[0], once.Lines[0])
	}
}

func TestAddItemRejectsBadQuantity(t *testing.T) {
	for _, qty := range []int{0, -1, -100} {
		if _, err := AddItem(nil, itemA, qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("AddItem(qty=%d) err = %v, want ErrInvalidQuantity", qty, err)
		}
	}
}

func TestAddItemDoesNotMutateInput(t *testing.T) {
	cart := mustAdd(t, nil, itemA, 2)
	before := cart.Lines[0]
	next := mustAdd(t, cart, itemA, 5)
	if cart.Lines[0] != before {
		t.Errorf("input cart mutated: %+v", cart.Lines[0])
	}
	if next.Lines[0].Qty != 7 {
		t.Errorf("next qty = %d, want 7", next.Lines[0].Qty)
	}
}

func TestUpdateQuantityIsAbsolute(t *testing.T) {
	cart := mustAdd(t, nil, itemA, 5)
	cart, err := UpdateQuantity(cart, itemA.ID, 2)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if cart.Lines[0].Qty != 2 {
		t.Errorf("qty = %d, want 2 (absolute, not additive)", cart.Lines[0].Qty)
	}
	checkTotals(t, cart)
}

func TestUpdateQuantityRejections(t *testing.T) {
	cart := mustAdd(t, nil, itemA, 1)

	if _, err := UpdateQuantity(cart, itemA.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("qty 0: err = %v, want ErrInvalidQuantity", err)
	}
	if _, err := UpdateQuantity(cart, itemB.ID, 2); !errors.Is(err, ErrCartLineNotFound) {
		t.Errorf("missing line: err = %v, want ErrCartLineNotFound", err)
	}
	if _, err := UpdateQuantity(nil, itemA.ID, 2); !errors.Is(err, ErrCartLineNotFound) {
		t.Errorf("nil cart: err = %v, want ErrCartLineNotFound", err)
	}
	// rejected updates leave the cart unchanged
	if cart.Lines[0].Qty != 1 || cart.TotalQty != 1 {
		t.Errorf("cart changed after rejected update: %+v", cart)
	}
}

func TestRemoveItem(t *testing.T) {
	cart := mustAdd(t, nil, itemA, 2)
	cart = mustAdd(t, cart, itemB, 1)

	cart = RemoveItem(cart, itemA.ID)
	if len(cart.Lines) != 1 || cart.Lines[0].MenuID != itemB.ID {
		t.Fatalf("unexpected lines after remove: %+v", cart.Lines)
	}
	checkTotals(t, cart)

	// removing the last line discards the cart entirely
	cart = RemoveItem(cart, itemB.ID)
	if cart != nil {
		t.Errorf("cart = %+v, want nil after last line removed", cart)
	}
	if !cart.IsEmpty() {
		t.Error("nil cart should read as empty")
	}
}

func TestRemoveItemUnknownID(t *testing.T) {
	cart := mustAdd(t, nil, itemA, 2)
	next := RemoveItem(cart, 999)
	if len(next.Lines) != 1 || next.TotalPrice != 40000 {
		t.Errorf("removing unknown id changed the cart: %+v", next)
	}
}

// The worked checkout scenario: A (20000 x2) + B (15000 x1).
func TestCartScenario(t *testing.T) {
	cart := mustAdd(t, nil, itemA, 2)
	cart = mustAdd(t, cart, itemB, 1)

	if cart.TotalPrice != 55000 {
		t.Errorf("TotalPrice = %d, want 55000", cart.TotalPrice)
	}
	if cart.TotalQty != 3 {
		t.Errorf("TotalQty = %d, want 3", cart.TotalQty)
	}

	// dropping A instead leaves only B
	reduced := RemoveItem(cart, itemA.ID)
	if reduced.TotalPrice != 15000 || reduced.TotalQty != 1 {
		t.Errorf("after RemoveItem(A): price %d qty %d, want 15000 / 1", reduced.TotalPrice, reduced.TotalQty)
	}
}

func TestCartPriceSnapshotIndependentOfCatalog(t *testing.T) {
	item := models.MenuItem{ID: 9, Name: "Es Teh", Price: 8000}
	cart := mustAdd(t, nil, item, 2)

	// a later catalog reprice must not touch the captured unit price
	item.Price = 99000
	if cart.Lines[0].Price != 8000 {
		t.Errorf("captured price = %d, want 8000", cart.Lines[0].Price)
	}
	checkTotals(t, cart)
}
