package services

import (
	"errors"

	"kopikoni/models"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrCartLineNotFound = errors.New("item is not in the cart")
)

type CartLine struct {
	MenuID    int64  `json:"menu_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"` // unit price captured when the item entered the cart
	Image     string `json:"image"`
	Qty       int    `json:"qty"`
	LineTotal int64  `json:"line_total"`
}

type Cart struct {
	Lines      []CartLine `json:"lines"`
	TotalQty   int        `json:"total_qty"`
	TotalPrice int64      `json:"total_price"`
}

// AddItem accumulates qty of the menu item onto the cart and returns the new
// cart state. A nil cart means "no cart yet" and starts a fresh one. The
// input cart is never mutated.
func AddItem(cart *Cart, item models.MenuItem, qty int) (*Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	next := cloneCart(cart)
	idx := -1
	for i := range next.Lines {
		if next.Lines[i].MenuID == item.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		next.Lines = append(next.Lines, CartLine{
			MenuID: item.ID,
			Name:   item.Name,
			Price:  item.Price,
			Image:  item.Image,
		})
		idx = len(next.Lines) - 1
	}
	next.Lines[idx].Qty += qty
	recompute(next)
	return next, nil
}

// UpdateQuantity sets the line's quantity to qty (absolute, not additive).
func UpdateQuantity(cart *Cart, menuID int64, qty int) (*Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	if cart == nil {
		return nil, ErrCartLineNotFound
	}
	next := cloneCart(cart)
	found := false
	for i := range next.Lines {
		if next.Lines[i].MenuID == menuID {
			next.Lines[i].Qty = qty
			found = true
			break
		}
	}
	if !found {
		return nil, ErrCartLineNotFound
	}
	recompute(next)
	return next, nil
}

// RemoveItem deletes the line. Removing the last line yields a nil cart, not
// an empty one, so "no cart" checks stay simple.
func RemoveItem(cart *Cart, menuID int64) *Cart {
	if cart == nil {
		return nil
	}
	next := &Cart{}
	for _, line := range cart.Lines {
		if line.MenuID != menuID {
			next.Lines = append(next.Lines, line)
		}
	}
	if len(next.Lines) == 0 {
		return nil
	}
	recompute(next)
	return next
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

func cloneCart(cart *Cart) *Cart {
	next := &Cart{}
	if cart != nil {
		next.Lines = append(next.Lines, cart.Lines...)
	}
	return next
}

// recompute rebuilds every line total and both aggregates from scratch. The
// totals are never adjusted incrementally, so a cart can not drift out of
// sync with its lines.
func recompute(cart *Cart) {
	cart.TotalQty = 0
	cart.TotalPrice = 0
	for i := range cart.Lines {
		cart.Lines[i].LineTotal = cart.Lines[i].Price * int64(cart.Lines[i].Qty)
		cart.TotalQty += cart.Lines[i].Qty
		cart.TotalPrice += cart.Lines[i].LineTotal
	}
}
