package services

import (
	"context"
	"errors"
	"testing"

	"kopikoni/db"
	"kopikoni/models"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"golang.org/x/crypto/bcrypt"
)

func TestRoleForAdminCode(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		secret string
		want   models.Role
	}{
		{"matching code", "kopikoni123", "kopikoni123", models.RoleAdmin},
		{"wrong code", "guess", "kopikoni123", models.RoleCustomer},
		{"empty code", "", "kopikoni123", models.RoleCustomer},
		{"no secret configured", "anything", "", models.RoleCustomer},
		{"both empty", "", "", models.RoleCustomer},
	}
	for _, tt := range tests {
		if got := RoleForAdminCode(tt.code, tt.secret); got != tt.want {
			t.Errorf("%s: RoleForAdminCode(%q, %q) = %q, want %q", tt.name, tt.code, tt.secret, got, tt.want)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cols := []string{"user_id", "name", "email", "password_hash", "role"}

	t.Run("correct password", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatal(err)
		}
		defer mock.Close()
		db.Pool = mock
		defer func() { db.Pool = nil }()

		mock.ExpectQuery(`SELECT user_id, name, email, password_hash, role`).
			WithArgs("budi@example.com").
			WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(5), "Budi", "budi@example.com", string(hash), "customer"))

		u, err := Authenticate(context.Background(), "Budi@Example.com ", "s3cret")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if u.ID != 5 || u.Role != models.RoleCustomer {
			t.Errorf("unexpected user: %+v", u)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatal(err)
		}
		defer mock.Close()
		db.Pool = mock
		defer func() { db.Pool = nil }()

		mock.ExpectQuery(`SELECT user_id, name, email, password_hash, role`).
			WithArgs("budi@example.com").
			WillReturnRows(pgxmock.NewRows(cols).AddRow(int64(5), "Budi", "budi@example.com", string(hash), "customer"))

		_, err = Authenticate(context.Background(), "budi@example.com", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email reads the same as wrong password", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		if err != nil {
			t.Fatal(err)
		}
		defer mock.Close()
		db.Pool = mock
		defer func() { db.Pool = nil }()

		mock.ExpectQuery(`SELECT user_id, name, email, password_hash, role`).
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err = Authenticate(context.Background(), "nobody@example.com", "whatever")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestRegisterUserValidation(t *testing.T) {
	_, err := RegisterUser(context.Background(), " ", "a@b.c", "pw", models.RoleCustomer)
	if !errors.Is(err, ErrRegisterValidation) {
		t.Errorf("blank name: err = %v, want ErrRegisterValidation", err)
	}
	_, err = RegisterUser(context.Background(), "Budi", "a@b.c", "", models.RoleCustomer)
	if !errors.Is(err, ErrRegisterValidation) {
		t.Errorf("blank password: err = %v, want ErrRegisterValidation", err)
	}
}
