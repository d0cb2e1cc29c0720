package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Product is a single cart entry submitted by the web-app.
type Product struct {
	Title string `json:"title"`
}

// Order correlates a pending web-app query with the submitted cart. QueryID
// must be answered at most once, within Telegram's acknowledgment window.
type Order struct {
	QueryID    string
	TotalPrice float64
	Products   []Product
}

// Titles returns the product titles in submission order.
func (o Order) Titles() []string {
	titles := make([]string, 0, len(o.Products))
	for _, p := range o.Products {
		titles = append(titles, p.Title)
	}
	return titles
}

// Receipt renders the fixed confirmation template shown to the buyer. An
// empty cart yields an empty joined-title segment, not an error.
func (o Order) Receipt() string {
	return fmt.Sprintf("Вітаю зі зверненням, ви купили товар на суму %s, %s",
		FormatAmount(o.TotalPrice), strings.Join(o.Titles(), ", "))
}

// FailureReceipt renders the notice used when the query could not be answered
// with the success receipt.
func (o Order) FailureReceipt() string {
	return fmt.Sprintf("На жаль, не вдалося підтвердити покупку на суму %s. Спробуйте ще раз.",
		FormatAmount(o.TotalPrice))
}

// FormatAmount renders a price the way the web-app shows it: integral values
// without a decimal point, fractional values with their shortest form.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
