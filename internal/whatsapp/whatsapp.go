// Package whatsapp builds wa.me deep-links pre-filled with a templated plot
// inquiry. Everything here is pure: same inputs, same URL, no I/O.
package whatsapp

import (
	"fmt"
	"net/url"
	"regexp"
)

const baseURL = "https://wa.me/"

// Indian country calling code, prepended when the number lacks it.
const countryCode = "91"

var nonDigitRe = regexp.MustCompile(`\D`)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageTamil   Language = "ta"
)

// MessageParams are the inputs of an inquiry link. Phone should be the
// seller's whatsapp number, falling back to the primary phone when absent.
type MessageParams struct {
	Phone     string
	PlotID    string
	PlotTitle string
	Price     int64
	Location  string
	Language  Language
}

// GenerateURL builds the inquiry deep-link: digits-only phone with the "91"
// prefix ensured, and a language-specific message template embedding plot id,
// title, price in lakhs and location.
func GenerateURL(p MessageParams) string {
	phone := normalizePhone(p.Phone)
	lakhs := formatLakhs(p.Price)

	var message string
	switch p.Language {
	case LanguageTamil:
		message = fmt.Sprintf(
			"வணக்கம், TNPlots இல் கண்ட நிலம் குறித்து மேலும் விவரங்கள் தெரிந்து கொள்ள விரும்புகிறேன்:\n\nID: %s\nதலைப்பு: %s\nவிலை: ₹%s லட்சம்\nஇடம்: %s\n\nமேலும் விவரங்கள் தரமுடியுமா?",
			p.PlotID, p.PlotTitle, lakhs, p.Location)
	default:
		message = fmt.Sprintf(
			"Hi, I'm interested in the plot listed on TNPlots:\n\nPlot ID: %s\nTitle: %s\nPrice: ₹%s Lakhs\nLocation: %s\n\nCould you share more details?",
			p.PlotID, p.PlotTitle, lakhs, p.Location)
	}

	return baseURL + phone + "?text=" + url.QueryEscape(message)
}

// GenerateShareURL builds a recipient-less share link for a plot page.
func GenerateShareURL(plotURL, plotTitle string) string {
	message := fmt.Sprintf("Check out this plot on TNPlots: %s\n%s", plotTitle, plotURL)
	return baseURL + "?text=" + url.QueryEscape(message)
}

// FormatPhoneNumber renders a phone number for display as "+91 98765 43210".
// Numbers that are neither a bare 10-digit number nor a 12-digit number with
// the country code are returned unchanged.
func FormatPhoneNumber(phone string) string {
	cleaned := nonDigitRe.ReplaceAllString(phone, "")

	if len(cleaned) == 10 {
		return fmt.Sprintf("+91 %s %s", cleaned[:5], cleaned[5:])
	}
	if len(cleaned) == 12 && cleaned[:2] == countryCode {
		return fmt.Sprintf("+91 %s %s", cleaned[2:7], cleaned[7:])
	}
	return phone
}

func normalizePhone(phone string) string {
	cleaned := nonDigitRe.ReplaceAllString(phone, "")
	if len(cleaned) >= 2 && cleaned[:2] == countryCode {
		return cleaned
	}
	return countryCode + cleaned
}

func formatLakhs(price int64) string {
	return fmt.Sprintf("%.2f", float64(price)/100000)
}
