package entity

import "time"

// AccessToken is the revocable server-side record behind a bearer token.
type AccessToken struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TokenID    string     `json:"-"`
	Name       string     `json:"name"`
	ExpiresAt  *time.Time `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (t *AccessToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// Identity is the authenticated caller, resolved once per request.
type Identity struct {
	User    *User
	TokenID string
}

func (i *Identity) UserID() string {
	if i == nil || i.User == nil {
		return ""
	}
	return i.User.ID
}

func (i *Identity) Permission() *Permission {
	if i == nil || i.User == nil {
		return nil
	}
	return i.User.Permission
}
