package cart

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestBuildCheckoutEmptyCart(t *testing.T) {
	if _, err := BuildCheckout(nil, ""); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildCheckoutMessage(t *testing.T) {
	lines := []Line{
		{ID: 1, Name: "3D Center Carpet", Size: "140x200 cm", Price: 300, Quantity: 2},
		{ID: 2, Name: "Fluffy Cloud Carpet", Size: "200x300 cm", Price: 450, Quantity: 1},
	}

	link, err := BuildCheckout(lines, "233000000000")
	if err != nil {
		t.Fatalf("BuildCheckout: %v", err)
	}

	if !strings.HasPrefix(link.Reference, "q_") {
		t.Fatalf("reference = %q", link.Reference)
	}

	for _, want := range []string{
		"Hi Luxury Carpet,",
		"• 3D Center Carpet (140x200 cm) x2 - GH₵ 600",
		"• Fluffy Cloud Carpet (200x300 cm) x1 - GH₵ 450",
		"**I will send you a screenshot of my cart**",
		"Total Amount: GH₵ 1050", // subtotal 1050, free delivery
		"Reference: " + link.Reference,
		"Please send me payment details and delivery options.",
	} {
		if !strings.Contains(link.Message, want) {
			t.Errorf("message missing %q:\n%s", want, link.Message)
		}
	}

	if !strings.HasPrefix(link.URL, "https://wa.me/233000000000?text=") {
		t.Fatalf("url = %q", link.URL)
	}

	u, err := url.Parse(link.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if got := u.Query().Get("text"); got != link.Message {
		t.Fatalf("text param does not round-trip:\n%q\n%q", got, link.Message)
	}
}

func TestBuildCheckoutDefaultPhone(t *testing.T) {
	link, err := BuildCheckout([]Line{{Name: "Rug", Price: 100, Quantity: 1}}, "")
	if err != nil {
		t.Fatalf("BuildCheckout: %v", err)
	}
	if !strings.HasPrefix(link.URL, "https://wa.me/"+DefaultWhatsAppPhone+"?") {
		t.Fatalf("url = %q", link.URL)
	}
	// 100 + 50 delivery
	if !strings.Contains(link.Message, "Total Amount: GH₵ 150") {
		t.Fatalf("message:\n%s", link.Message)
	}
}

func TestBuildCheckoutFreshReferencePerCall(t *testing.T) {
	lines := []Line{{Name: "Rug", Price: 100, Quantity: 1}}

	a, _ := BuildCheckout(lines, "")
	b, _ := BuildCheckout(lines, "")
	if a.Reference == b.Reference {
		t.Fatalf("reference reused: %q", a.Reference)
	}
}
