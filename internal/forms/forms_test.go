package forms

import (
	"testing"
	"time"

	domerrors "github.com/fayzdev/fayz-go/internal/errors"
)

func TestValidatePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phone string
		valid bool
	}{
		{"+998901234567", true},
		{"+998935551122", true},
		{" +998901234567 ", true},
		{"+99890123456", false},    // eight digits after prefix
		{"+9989012345678", false},  // ten digits after prefix
		{"998901234567", false},    // missing plus
		{"+998 90 123 45 67", false},
		{"+7 901 234 5678", false},
		{"", false},
	}

	for _, tt := range tests {
		err := ValidatePhone(tt.phone)
		if tt.valid && err != nil {
			t.Errorf("ValidatePhone(%q) error = %v, want nil", tt.phone, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidatePhone(%q) = nil, want error", tt.phone)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		valid bool
	}{
		{"guest@example.com", true},
		{"a.b+tag@sub.example.co", true},
		{"no-at-sign", false},
		{"two@@example.com", false},
		{"spaces in@example.com", false},
		{"missing@dot", false},
		{"", false},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.valid && err != nil {
			t.Errorf("ValidateEmail(%q) error = %v, want nil", tt.email, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", tt.email)
		}
	}
}

func TestCheckoutValidate(t *testing.T) {
	t.Parallel()

	valid := Checkout{Name: "Aziz", Phone: "+998901234567", Address: "12 Amir Temur Avenue"}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid form error = %v", err)
	}

	tests := []struct {
		name  string
		form  Checkout
		field string
	}{
		{"missing name", Checkout{Phone: "+998901234567", Address: "x"}, "name"},
		{"bad phone", Checkout{Name: "Aziz", Phone: "12345", Address: "x"}, "phone"},
		{"missing address", Checkout{Name: "Aziz", Phone: "+998901234567"}, "address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			ve, ok := domerrors.AsValidationError(err)
			if !ok {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestReservationValidate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	valid := Reservation{
		Name: "Dilnoza", Phone: "+998935551122",
		Date: "2026-09-15", Time: "19:00",
		Guests: 4, TableType: "window",
	}
	if err := valid.Validate(now); err != nil {
		t.Errorf("valid form error = %v", err)
	}

	// Booking for today is allowed
	today := valid
	today.Date = "2026-09-01"
	if err := today.Validate(now); err != nil {
		t.Errorf("same-day booking error = %v", err)
	}

	tests := []struct {
		name  string
		mod   func(r *Reservation)
		field string
	}{
		{"past date", func(r *Reservation) { r.Date = "2026-08-31" }, "date"},
		{"bad date format", func(r *Reservation) { r.Date = "15/09/2026" }, "date"},
		{"bad time", func(r *Reservation) { r.Time = "7pm" }, "time"},
		{"zero guests", func(r *Reservation) { r.Guests = 0 }, "guests"},
		{"too many guests", func(r *Reservation) { r.Guests = 13 }, "guests"},
		{"unknown table", func(r *Reservation) { r.TableType = "rooftop" }, "table_type"},
		{"bad phone", func(r *Reservation) { r.Phone = "+1 555" }, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mod(&form)
			err := form.Validate(now)
			ve, ok := domerrors.AsValidationError(err)
			if !ok {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestContactValidate(t *testing.T) {
	t.Parallel()

	valid := Contact{
		FirstName: "Aziz", LastName: "Karimov",
		Email: "aziz@example.com", Subject: "Catering", Message: "Do you cater events?",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid form error = %v", err)
	}

	bad := valid
	bad.Email = "not-an-email"
	if err := bad.Validate(); err == nil {
		t.Error("invalid email should fail")
	}

	empty := Contact{}
	err := empty.Validate()
	ve, ok := domerrors.AsValidationError(err)
	if !ok {
		t.Fatalf("Validate() error = %v, want ValidationError", err)
	}
	if ve.Field != "first_name" {
		t.Errorf("Field = %q, want first_name", ve.Field)
	}
}
