package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	MobileNo     string    `json:"mobile_no"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns the display name sent to the payment gateway as the
// customer name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return "Customer"
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
