package domain

import "time"

// Role is the marketplace role an account registers with. Any non-empty
// value is accepted; roles other than the named ones behave as the default role.
type Role string

const (
	RoleProvider   Role = "provider"
	RoleInfluencer Role = "influencer"
	RoleAdmin      Role = "admin"
)

func (r Role) String() string { return string(r) }

// Profile holds the optional, free-text attributes an account fills in during
// onboarding. A nil field has never been set (or was cleared by a full replace).
type Profile struct {
	Bio        *string `json:"bio"        bson:"bio"`
	Interests  *string `json:"interests"  bson:"interests"`
	Skills     *string `json:"skills"     bson:"skills"`
	Location   *string `json:"location"   bson:"location"`
	Experience *string `json:"experience" bson:"experience"`
	Services   *string `json:"services"   bson:"services"`
	Socials    *string `json:"socials"    bson:"socials"`
}

// Account models one registered identity. Email is the natural key.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProfilePatch carries a partial profile change. Nil fields are left untouched.
type ProfilePatch struct {
	Name  *string
	Email *string
	Profile
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Profile == (Profile{})
}

// Claims is the identity carried by a verified session token.
type Claims struct {
	Email     string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
