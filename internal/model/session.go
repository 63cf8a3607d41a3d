package model

// Role is assigned at sign-up and never changes client-side.
type Role string

const (
	RoleContractor       Role = "contractor"
	RoleProjectProponent Role = "project_proponent"
	RoleAdmin            Role = "admin"
)

// Valid reports whether r is one of the closed set of platform roles.
func (r Role) Valid() bool {
	switch r {
	case RoleContractor, RoleProjectProponent, RoleAdmin:
		return true
	}
	return false
}

// Profile is the platform-side identity record for the signed-in user.
type Profile struct {
	UserID           string `json:"id"`
	Email            string `json:"email"`
	Role             Role   `json:"role"`
	OrganizationName string `json:"organization_name,omitempty"`
}

// Session is the signed-in identity plus the token material backing it.
// The tokens are opaque to everything except the session store.
type Session struct {
	Profile
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}
