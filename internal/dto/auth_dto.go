package dto

// RegisterUserRequest is the payload for POST /api/auth/register.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUserRequest is the payload for POST /api/auth/login. On success the
// session token is set as an HttpOnly cookie rather than returned in the body.
type LoginUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
