package storage

import "time"

// Order is a persisted order record. Customer and Items are stored as
// JSON columns so the schema does not need to change when the checkout
// form grows a field.
type Order struct {
	ID         string       `json:"id"`
	SessionID  string       `json:"session_id"`
	Customer   CustomerInfo `json:"customer"`
	Items      []OrderItem  `json:"items"`
	Subtotal   float64      `json:"subtotal"`
	Tax        float64      `json:"tax"`
	GrandTotal float64      `json:"grand_total"`
	CreatedAt  time.Time    `json:"created_at"`
}

// CustomerInfo holds the checkout form fields attached to an order.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Comment string `json:"comment,omitempty"`
}

// OrderItem is a single line of an order, frozen at submission time.
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// MenuItem is one dish on the menu.
type MenuItem struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Available   bool    `json:"available"`
	SortOrder   int     `json:"sort_order"`
}

// Reservation is a persisted table booking.
type Reservation struct {
	ID        string
	Name      string
	Phone     string
	Date      string
	Time      string
	Guests    int
	TableType string
	CreatedAt time.Time
}

// ContactMessage is a persisted contact-form submission.
type ContactMessage struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Subject   string
	Body      string
	CreatedAt time.Time
}
