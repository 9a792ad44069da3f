package models

import "time"

type PaymentMethod struct {
	ID       int64
	Name     string
	IsCash   bool
	IsActive bool
}

// Order is a row from the orders table. PaymentMethod and Items are filled
// by the joined history/admin queries.
type Order struct {
	ID              int64
	UserID          int64
	OrderDate       time.Time
	TotalAmount     int64
	Status          string
	CustomerName    string
	CustomerAddress string
	PaymentMethodID int64
	PaymentMethod   string
	PaymentProof    string // relative path, empty if none
	Items           []OrderLine
}

// OrderLine captures the menu item and its unit price at order time. The
// price never changes afterwards, even if the menu item is repriced.
type OrderLine struct {
	OrderID      int64
	MenuID       int64
	MenuName     string
	MenuImage    string
	Quantity     int
	PricePerItem int64
}

type CreateOrderInput struct {
	UserID          int64
	CustomerName    string
	CustomerAddress string
	PaymentMethodID int64
	PaymentProof    string
}
