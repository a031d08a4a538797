// Package registration turns an accepted form into the record handed to the welcome step.
package registration

import (
	"strings"
	"time"

	"github.com/mssola/useragent"
	"golang.org/x/crypto/bcrypt"

	"signup/internal/signup/models"
	"signup/pkg/secrets"
)

// Registration is an accepted sign-up. The plaintext password never leaves the form.
type Registration struct {
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Gender       string    `json:"gender,omitempty"`
	Zip          string    `json:"zip,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	County       string    `json:"county,omitempty"`
	Latitude     string    `json:"latitude,omitempty"`
	Longitude    string    `json:"longitude,omitempty"`
	PasswordHash string    `json:"-"`
	Device       string    `json:"device"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName is the name used to greet the user.
func (r *Registration) DisplayName() string {
	name := strings.TrimSpace(r.FirstName + " " + r.LastName)
	if name == "" {
		return r.Username
	}
	return name
}

// Builder hashes passwords at a fixed bcrypt cost.
type Builder struct {
	cost int
}

// NewBuilder creates a Builder. Costs outside bcrypt's range use the default.
func NewBuilder(cost int) *Builder {
	return &Builder{cost: cost}
}

// Build creates a Registration from accepted form data.
func (b *Builder) Build(data models.FormData, userAgent string, now time.Time) (*Registration, error) {
	hash, err := secrets.HashPassword(data.Password, b.cost)
	if err != nil {
		return nil, err
	}
	return &Registration{
		Username:     strings.TrimSpace(data.Username),
		FirstName:    strings.TrimSpace(data.FirstName),
		LastName:     strings.TrimSpace(data.LastName),
		Gender:       data.Gender,
		Zip:          strings.TrimSpace(data.Zip),
		City:         data.City,
		State:        strings.ToUpper(strings.TrimSpace(data.State)),
		County:       data.County,
		Latitude:     data.Latitude,
		Longitude:    data.Longitude,
		PasswordHash: hash,
		Device:       DeviceLabel(userAgent),
		CreatedAt:    now,
	}, nil
}

// Build creates a Registration at bcrypt's default cost.
func Build(data models.FormData, userAgent string, now time.Time) (*Registration, error) {
	return NewBuilder(bcrypt.DefaultCost).Build(data, userAgent, now)
}

// DeviceLabel extracts a readable "Browser on OS" label from a User-Agent header.
func DeviceLabel(userAgent string) string {
	if userAgent == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}
	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
