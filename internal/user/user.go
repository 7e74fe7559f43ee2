package user

import (
	"github.com/google/uuid"
)

// User is the public view of an account as shown next to the movements it recorded.
type User struct {
	ID       uuid.UUID
	FullName string
	Email    string
}

func (u *User) complete() bool {
	return u.FullName != "" && u.Email != ""
}
