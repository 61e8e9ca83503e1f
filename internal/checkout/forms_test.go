package checkout

import "testing"

func TestFormatCardNumber(t *testing.T) {
	cases := []struct {
		name     string
		previous string
		input    string
		want     string
	}{
		{name: "groups of four", input: "4242424242424242", want: "4242 4242 4242 4242"},
		{name: "partial group", input: "424242", want: "4242 42"},
		{name: "reformats spaced input", input: "4242 42424", want: "4242 4242 4"},
		{name: "too long keeps previous", previous: "4242 4242 4242 4242", input: "4242 4242 4242 42421", want: "4242 4242 4242 4242"},
		{name: "empty", input: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatCardNumber(tc.previous, tc.input); got != tc.want {
				t.Fatalf("want %q got %q", tc.want, got)
			}
		})
	}
}

func TestFormatExpiry(t *testing.T) {
	cases := map[string]string{
		"1":      "1",
		"12":     "12/",
		"123":    "12/3",
		"12/29":  "12/29",
		"122930": "12/29",
		"ab":     "",
	}
	for input, want := range cases {
		if got := FormatExpiry(input); got != want {
			t.Fatalf("FormatExpiry(%q) want %q got %q", input, want, got)
		}
	}
}

func TestFormatCVV(t *testing.T) {
	if got := FormatCVV("", "12a3"); got != "123" {
		t.Fatalf("want 123 got %q", got)
	}
	if got := FormatCVV("123", "1234"); got != "123" {
		t.Fatalf("too long input should keep previous, got %q", got)
	}
}

func TestShippingFormValidate(t *testing.T) {
	if err := validShipping().Validate(); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
	if err := (ShippingForm{FullName: "Ana"}).Validate(); err == nil {
		t.Fatalf("incomplete form accepted")
	}
	if err := (PaymentForm{CardName: "Ana", CardNumber: "4242", Expiry: "12/", CVV: "1"}).Validate(); err != nil {
		t.Fatalf("shaped payment should pass without checksum: %v", err)
	}
}
