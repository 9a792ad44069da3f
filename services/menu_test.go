package services

import (
	"errors"
	"testing"

	"kopikoni/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Main Course", "main-course"},
		{"Kopi & Teh", "kopi--teh"},
		{"  Dessert  ", "dessert"},
		{"Signature", "signature"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateMenuItem(t *testing.T) {
	base := models.MenuItem{Name: "Kopi Susu", Price: 20000, CategoryID: 1}
	if err := validateMenuItem(base); err != nil {
		t.Fatalf("valid item rejected: %v", err)
	}

	tests := []struct {
		name string
		mut  func(*models.MenuItem)
	}{
		{"blank name", func(m *models.MenuItem) { m.Name = "  " }},
		{"zero price", func(m *models.MenuItem) { m.Price = 0 }},
		{"negative price", func(m *models.MenuItem) { m.Price = -500 }},
		{"no category", func(m *models.MenuItem) { m.CategoryID = 0 }},
	}
	for _, tt := range tests {
		item := base
		tt.mut(&item)
		if err := validateMenuItem(item); !errors.Is(err, ErrMenuItemValidation) {
			t.Errorf("%s: err = %v, want ErrMenuItemValidation", tt.name, err)
		}
	}
}
