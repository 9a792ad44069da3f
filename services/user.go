package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kopikoni/db"
	"kopikoni/models"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

var (
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrRegisterValidation = errors.New("registration validation")
)

// RoleForAdminCode derives the role fixed at registration: the admin role is
// granted only when the submitted code matches the configured shared secret.
// An empty secret never grants admin.
func RoleForAdminCode(code, secret string) models.Role {
	if secret != "" && code == secret {
		return models.RoleAdmin
	}
	return models.RoleCustomer
}

// RegisterUser creates the account with a bcrypt password hash. A duplicate
// email surfaces as db.ErrUniqueViolation.
func RegisterUser(ctx context.Context, name, email, password string, role models.Role) (int64, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return 0, fmt.Errorf("%w: name, email and password are required", ErrRegisterValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	var id int64
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id`,
		name, email, hash, string(role),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("register user: %w", db.Classify(err))
	}
	return id, nil
}

// Authenticate verifies the password for the email and returns the user.
// A missing account and a wrong password both come back as
// ErrInvalidCredentials; the caller can not tell them apart.
func Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	var u models.User
	var role string
	err := db.Pool.QueryRow(ctx, `
		SELECT user_id, name, email, password_hash, role
		FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role)
	if err != nil {
		if errors.Is(db.Classify(err), db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	u.Role = models.Role(role)
	return &u, nil
}
