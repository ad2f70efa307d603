package domain

// Identity is the caller resolved by the auth middleware.
type Identity struct {
	UserID string
}
