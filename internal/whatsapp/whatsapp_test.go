package whatsapp

import (
	"net/url"
	"strings"
	"testing"
)

func TestGenerateURLDeterministic(t *testing.T) {
	params := MessageParams{
		Phone:     "9876543210",
		PlotID:    "p1",
		PlotTitle: "Plot A",
		Price:     1200000,
		Location:  "Cheyyar",
		Language:  LanguageEnglish,
	}

	first := GenerateURL(params)
	for i := 0; i < 10; i++ {
		if got := GenerateURL(params); got != first {
			t.Fatalf("call %d returned a different URL:\n%s\n%s", i, got, first)
		}
	}
}

func TestGenerateURLPhoneNormalization(t *testing.T) {
	tests := []struct {
		phone string
		want  string
	}{
		{"9876543210", "919876543210"},
		{"+91 98765 43210", "919876543210"},
		{"919876543210", "919876543210"},
		{"(987) 654-3210", "919876543210"},
	}
	for _, tt := range tests {
		got := GenerateURL(MessageParams{Phone: tt.phone, Price: 100000})
		if !strings.HasPrefix(got, "https://wa.me/"+tt.want+"?text=") {
			t.Errorf("GenerateURL(phone=%q) = %s, want prefix wa.me/%s", tt.phone, got, tt.want)
		}
	}
}

func TestGenerateURLMessageContent(t *testing.T) {
	raw := GenerateURL(MessageParams{
		Phone:     "9876543210",
		PlotID:    "p1",
		PlotTitle: "Plot A",
		Price:     1200000,
		Location:  "Cheyyar",
		Language:  LanguageEnglish,
	})

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("generated URL does not parse: %v", err)
	}
	message := u.Query().Get("text")

	for _, want := range []string{"Plot ID: p1", "Title: Plot A", "₹12.00 Lakhs", "Location: Cheyyar"} {
		if !strings.Contains(message, want) {
			t.Errorf("message missing %q:\n%s", want, message)
		}
	}
}

func TestGenerateURLTamilVariant(t *testing.T) {
	raw := GenerateURL(MessageParams{
		Phone:    "9876543210",
		PlotID:   "p1",
		Price:    250000,
		Language: LanguageTamil,
	})

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("generated URL does not parse: %v", err)
	}
	message := u.Query().Get("text")
	if !strings.Contains(message, "₹2.50 லட்சம்") {
		t.Errorf("tamil message missing lakhs rendering:\n%s", message)
	}
	if !strings.Contains(message, "ID: p1") {
		t.Errorf("tamil message missing plot id:\n%s", message)
	}
}

func TestFormatLakhs(t *testing.T) {
	tests := []struct {
		price int64
		want  string
	}{
		{1200000, "12.00"},
		{250000, "2.50"},
		{50000, "0.50"},
		{12345678, "123.46"},
	}
	for _, tt := range tests {
		if got := formatLakhs(tt.price); got != tt.want {
			t.Errorf("formatLakhs(%d) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func TestGenerateShareURL(t *testing.T) {
	got := GenerateShareURL("https://tnplots.com/plots/p1", "Plot A")
	if !strings.HasPrefix(got, "https://wa.me/?text=") {
		t.Fatalf("share URL has wrong base: %s", got)
	}

	u, _ := url.Parse(got)
	message := u.Query().Get("text")
	if !strings.Contains(message, "Plot A") || !strings.Contains(message, "https://tnplots.com/plots/p1") {
		t.Fatalf("share message incomplete: %s", message)
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9876543210", "+91 98765 43210"},
		{"919876543210", "+91 98765 43210"},
		{"+91 98765 43210", "+91 98765 43210"},
		{"12345", "12345"}, // unrecognized shape passes through
	}
	for _, tt := range tests {
		if got := FormatPhoneNumber(tt.in); got != tt.want {
			t.Errorf("FormatPhoneNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
