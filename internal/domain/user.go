package domain

import "time"

// Role is the name of the single group a user belongs to.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash []byte
	Role         Role
	DateJoined   time.Time
}
