package cart

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultWhatsAppPhone is the shop's order line.
const DefaultWhatsAppPhone = "233263405722"

var ErrEmptyCart = errors.New("cart is empty")

// CheckoutLink is the one-way handoff: a prefilled WhatsApp message with the
// cart summary. The system never learns whether the message was sent.
type CheckoutLink struct {
	Reference string `json:"reference"`
	URL       string `json:"url"`
	Message   string `json:"message"`
}

// BuildCheckout renders the handoff link for the given lines. The reference
// id only exists inside the message; no order record is kept anywhere.
func BuildCheckout(lines []Line, phone string) (CheckoutLink, error) {
	if len(lines) == 0 {
		return CheckoutLink{}, ErrEmptyCart
	}
	if phone == "" {
		phone = DefaultWhatsAppPhone
	}

	totals := ComputeTotals(lines)
	ref := "q_" + uuid.NewString()

	items := make([]string, 0, len(lines))
	for _, l := range lines {
		items = append(items, fmt.Sprintf("• %s (%s) x%d - GH₵ %s",
			l.Name, l.Size, l.Quantity, amount(l.Price*float64(l.Quantity))))
	}

	var b strings.Builder
	b.WriteString("Hi Luxury Carpet,\n\n")
	b.WriteString("I want to order these items:\n\n")
	b.WriteString(strings.Join(items, "\n"))
	b.WriteString("\n\n**I will send you a screenshot of my cart**\n\n")
	b.WriteString("Total Amount: GH₵ " + amount(totals.Grand) + "\n")
	b.WriteString("Reference: " + ref + "\n\n")
	b.WriteString("Please send me payment details and delivery options.")

	msg := b.String()
	return CheckoutLink{
		Reference: ref,
		URL:       "https://wa.me/" + phone + "?text=" + url.QueryEscape(msg),
		Message:   msg,
	}, nil
}

// amount prints whole-unit prices without a decimal tail: 300, not 300.00.
func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
