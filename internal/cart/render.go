package cart

import "strconv"

// Row is one rendered cart line with its derived total.
type Row struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// View is the rendered state of a cart. Every field is derived from the
// item list; nothing in a View is stored or mutated in place.
type View struct {
	Empty           bool    `json:"empty"`
	Rows            []Row   `json:"rows"`
	ItemCount       int     `json:"item_count"`
	Subtotal        float64 `json:"subtotal"`
	Tax             float64 `json:"tax"`
	GrandTotal      float64 `json:"grand_total"`
	CheckoutEnabled bool    `json:"checkout_enabled"`
}

// Render derives a View from an item list and tax rate. It is a pure
// function: identical inputs always produce an identical View, and
// totals are recomputed from scratch on every call.
func Render(items []Item, taxRate float64) View {
	view := View{
		Empty: len(items) == 0,
		Rows:  make([]Row, 0, len(items)),
	}

	for _, item := range items {
		lineTotal := item.Price * float64(item.Quantity)
		view.Rows = append(view.Rows, Row{
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		view.ItemCount += item.Quantity
		view.Subtotal += lineTotal
	}

	view.Tax = view.Subtotal * taxRate
	view.GrandTotal = view.Subtotal + view.Tax
	view.CheckoutEnabled = !view.Empty

	return view
}

// FormatAmount formats a monetary value with two decimal places, the
// way totals are displayed to guests.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
