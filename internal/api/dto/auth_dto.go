package dto

// SignupRequest starts (or refreshes) a confirmation-code signup.
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
}

// SignupResponse echoes the identity the code was issued for.
type SignupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenRequest exchanges a confirmation code for an access token.
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
