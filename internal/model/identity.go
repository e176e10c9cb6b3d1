package model

// Identity is the {name, email} pair established by the auth adapter for a
// session. Email is the sole identifier used for authorization: ownership
// is creator-email equality and admin status is admin-set membership.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	// Picture is carried through from the provider's claims when present.
	Picture string `json:"picture,omitempty"`
}
