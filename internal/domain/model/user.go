package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Role distinguishes platform actors.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleArtist   Role = "artist"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleArtist || r == RoleCustomer
}

// Profile holds shipping contact data of a user.
type Profile struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
	Mobile  string `json:"mobile"`
}

// ShippingReady reports whether address and mobile are complete enough to ship to.
func (p Profile) ShippingReady() bool {
	for _, v := range []string{p.Street, p.City, p.ZipCode, p.Country, p.Mobile} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

var mobilePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// ValidMobile reports whether s looks like an international phone number.
// Spaces, dashes and parentheses are ignored.
func ValidMobile(s string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(s)
	return mobilePattern.MatchString(cleaned)
}

// Normalize trims surrounding whitespace from every field.
func (p Profile) Normalize() Profile {
	return Profile{
		Street:  strings.TrimSpace(p.Street),
		City:    strings.TrimSpace(p.City),
		State:   strings.TrimSpace(p.State),
		ZipCode: strings.TrimSpace(p.ZipCode),
		Country: strings.TrimSpace(p.Country),
		Mobile:  strings.TrimSpace(p.Mobile),
	}
}

// User represents a registered platform account.
type User struct {
	ID             int64
	Login          string
	PasswordHash   string
	Role           Role
	Profile        Profile
	ArtistStatus   ArtistStatus
	CommissionRate *decimal.Decimal
	CreatedAt      time.Time
}

// CanLogIn reports whether the account may obtain a session token.
func (u User) CanLogIn() bool {
	return u.Role != RoleArtist || u.ArtistStatus == ArtistStatusApproved
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	UserID int64
	Role   Role
}
