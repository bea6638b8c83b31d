package auth

import "time"

type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`

	// Optional employee-profile fields, honored when the role resolves
	// to employee.
	EmployeeID string `json:"employeeId"`
	Department string `json:"department"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of a user; it never carries the
// password hash.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthData is the payload of signup and login responses.
type AuthData struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
