// Package forms validates guest-submitted form input. Validators
// return ValidationError values naming the offending field so handlers
// can map them straight onto the form.
package forms

import (
	"regexp"
	"strings"
	"time"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
)

var (
	// Uzbek mobile numbers: +998 followed by exactly nine digits.
	phonePattern = regexp.MustCompile(`^\+998[0-9]{9}$`)

	// Deliberately loose: one @, no whitespace, a dot in the domain.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const dateLayout = "2006-01-02"

// ValidatePhone checks an Uzbek mobile number.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(strings.TrimSpace(phone)) {
		return &domerrors.ValidationError{Field: "phone", Message: "phone must match +998XXXXXXXXX"}
	}
	return nil
}

// ValidateEmail checks an email address.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &domerrors.ValidationError{Field: "email", Message: "email address is not valid"}
	}
	return nil
}

// Checkout is the order form collected at submission time.
type Checkout struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Comment string `json:"comment"`
}

// Validate checks the checkout form.
func (c *Checkout) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &domerrors.ValidationError{Field: "name", Message: "name is required"}
	}
	if err := ValidatePhone(c.Phone); err != nil {
		return err
	}
	if strings.TrimSpace(c.Address) == "" {
		return &domerrors.ValidationError{Field: "address", Message: "delivery address is required"}
	}
	return nil
}

// Reservation is the table booking form.
type Reservation struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Guests    int    `json:"guests"`
	TableType string `json:"table_type"`
}

var tableTypes = map[string]bool{
	"standard": true,
	"window":   true,
	"terrace":  true,
	"private":  true,
}

// Validate checks the booking form against the current time. The
// booking date may be today but never in the past.
func (r *Reservation) Validate(now time.Time) error {
	if strings.TrimSpace(r.Name) == "" {
		return &domerrors.ValidationError{Field: "name", Message: "name is required"}
	}
	if err := ValidatePhone(r.Phone); err != nil {
		return err
	}

	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return &domerrors.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"}
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return &domerrors.ValidationError{Field: "date", Message: "date must not be in the past"}
	}

	if _, err := time.Parse("15:04", r.Time); err != nil {
		return &domerrors.ValidationError{Field: "time", Message: "time must be HH:MM"}
	}
	if r.Guests < 1 || r.Guests > 12 {
		return &domerrors.ValidationError{Field: "guests", Message: "guests must be between 1 and 12"}
	}
	if !tableTypes[r.TableType] {
		return &domerrors.ValidationError{Field: "table_type", Message: "unknown table type"}
	}
	return nil
}

// Contact is the contact-page message form.
type Contact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// Validate checks the contact form.
func (c *Contact) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return &domerrors.ValidationError{Field: "first_name", Message: "first name is required"}
	}
	if strings.TrimSpace(c.LastName) == "" {
		return &domerrors.ValidationError{Field: "last_name", Message: "last name is required"}
	}
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	if strings.TrimSpace(c.Subject) == "" {
		return &domerrors.ValidationError{Field: "subject", Message: "subject is required"}
	}
	if strings.TrimSpace(c.Message) == "" {
		return &domerrors.ValidationError{Field: "message", Message: "message is required"}
	}
	return nil
}
