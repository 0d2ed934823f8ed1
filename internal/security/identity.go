package security

// Identity is the immutable authenticated-user state attached to a request
// after a successful login. It is produced by AuthService.Authenticate or by
// parsing an access token, and is passed explicitly to authorization checks
// rather than read from ambient state.
type Identity struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	IsAdmin  bool   `json:"is_admin"`
}
