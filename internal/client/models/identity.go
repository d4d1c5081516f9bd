package models

// Identity describes the authenticated principal as reported by /auth/me.
// It is cached next to the credential and refreshed on every restore.
type Identity struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	// IsAdmin gates the admin-only views.
	IsAdmin Flag `json:"is_admin"`
}

// User is the admin view of an account.
type User struct {
	Identity
	IsActive Flag `json:"is_active"`
}

// RegisterRequest carries the fields of a new account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// ProfileUpdate changes the caller's own profile; nil fields are left as is.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UserUpdate is the admin edit of another account.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *Flag   `json:"is_active,omitempty"`
	IsAdmin  *Flag   `json:"is_admin,omitempty"`
}
