package auth

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoginResponse contains the bearer token and identity summary returned on success.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	IsAdmin     bool   `json:"is_admin"`
	Username    string `json:"username"`
}

// RegisterRequest contains the payload required for creating a new account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
}

// ChangePasswordRequest carries the old and new credentials for a password rotation.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}
