package models

import (
	"time"
)

type Role string

const (
	RoleCustomer      Role = "customer"
	RoleTenantOwner   Role = "tenantOwner"
	RolePlatformAdmin Role = "platformAdmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleTenantOwner, RolePlatformAdmin:
		return true
	}
	return false
}

type User struct {
	ID              int64     `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	FullName        string    `json:"full_name,omitempty" db:"full_name"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	Role            Role      `json:"role" db:"role"`
	DefaultTenantID *int64    `json:"default_restaurant_id,omitempty" db:"default_restaurant_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
