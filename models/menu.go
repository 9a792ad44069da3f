package models

type Category struct {
	ID   int64
	Name string
}

type MenuItem struct {
	ID          int64
	Name        string
	Price       int64
	CategoryID  int64
	Category    string // joined category_name, empty when not loaded
	Description string
	Image       string // relative path under the upload dir, empty if none
	IsActive    bool
}

// CategoryMenu groups the active items of one category for the menu page.
type CategoryMenu struct {
	CategoryID int64
	Name       string
	Slug       string
	Items      []MenuItem
}
