package domain

// TokenType discriminates the two token classes. A token only verifies
// against the class it was issued as.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)
