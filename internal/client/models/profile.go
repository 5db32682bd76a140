package models

import "golang.org/x/text/unicode/norm"

// ProfileColumns is the fixed projection read from the profiles collection.
var ProfileColumns = []string{"id", "name", "email", "username", "avatar_url", "bio"}

// Profile is the user-facing record stored in the "profiles" collection and
// keyed by the identity id. Every attribute is optional; empty means unset.
type Profile struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// ProfileUpdate is a partial profile update. Nil fields are omitted from the
// request and left unchanged server-side; a pointer to "" clears the field.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Username == nil && u.AvatarURL == nil && u.Bio == nil
}

// Normalized returns a copy with every set field converted to Unicode NFC.
// Values are otherwise sent exactly as given.
func (u ProfileUpdate) Normalized() ProfileUpdate {
	nfc := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := norm.NFC.String(*p)
		return &v
	}

	return ProfileUpdate{
		Name:      nfc(u.Name),
		Email:     nfc(u.Email),
		Username:  nfc(u.Username),
		AvatarURL: nfc(u.AvatarURL),
		Bio:       nfc(u.Bio),
	}
}

// Columns returns the set fields as column/value pairs in ProfileColumns order.
func (u ProfileUpdate) Columns() ([]string, []any) {
	var (
		cols []string
		vals []any
	)
	add := func(col string, p *string) {
		if p != nil {
			cols = append(cols, col)
			vals = append(vals, *p)
		}
	}
	add("name", u.Name)
	add("email", u.Email)
	add("username", u.Username)
	add("avatar_url", u.AvatarURL)
	add("bio", u.Bio)
	return cols, vals
}

// Apply returns p with the fields of u applied. Used by tests and fakes that
// mimic the provider.
func (p Profile) Apply(u ProfileUpdate) Profile {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, u.Name)
	set(&p.Email, u.Email)
	set(&p.Username, u.Username)
	set(&p.AvatarURL, u.AvatarURL)
	set(&p.Bio, u.Bio)
	return p
}
