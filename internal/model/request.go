package model

// LoginRequest is the input of a login call.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the input of a signup call. Passwords shorter than 8 characters
// are rejected before the session is touched.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

// RoleRequest is the input of a role selection call.
type RoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=student tutor"`
}
