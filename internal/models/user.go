package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        string    `bun:"id,pk" json:"id"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	FullName  string    `bun:"full_name,notnull" json:"full_name"`
	Role      string    `bun:"role,notnull,default:'user'" json:"role"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// CanCheckIn reports whether the user holds door-staff privilege.
func (u *User) CanCheckIn() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}
