package models

type Role string

const (
	RoleAnonymous Role = ""
	RoleCustomer  Role = "customer"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// SessionUser is the slice of User kept in the session cookie. The password
// hash never goes into the cookie.
type SessionUser struct {
	ID    int64
	Name  string
	Email string
	Role  Role
}

func (u User) SessionUser() SessionUser {
	return SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func (u SessionUser) IsAdmin() bool { return u.Role == RoleAdmin }
