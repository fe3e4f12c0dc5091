package model

// User is a local profile. Partners are linked symmetrically: each side
// stores the other's ID.
type User struct {
	ID        string
	Name      string
	Email     string
	PartnerID string
	Avatar    string
}

// HasPartner reports whether the user is linked to a partner account.
func (u *User) HasPartner() bool {
	return u.PartnerID != ""
}
