package dto

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for staff registration. Accounts always start as
// librarians.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// SetRoleRequest: admin payload for changing a staff role
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=librarian admin"`
}

// LoginRequest: payload for staff login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest: payload for refresh and revoke
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse: response payload after login or refresh
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
	UserID       string `json:"user_id,omitempty"`
	Role         string `json:"role,omitempty"`
}

// RegisterResponse: response payload after successful registration
type RegisterResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
