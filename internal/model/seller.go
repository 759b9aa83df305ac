package model

import "time"

// Seller owns zero or more plots. The phone number is the natural key: a
// phone number maps to at most one seller record.
type Seller struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	PhoneNumber    string    `db:"phone_number" json:"phoneNumber"`
	WhatsappNumber string    `db:"whatsapp_number" json:"whatsappNumber"`
	Email          string    `db:"email" json:"email,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// SellerContact is the contact subset loaded alongside plots.
type SellerContact struct {
	Name           string `db:"name" json:"name"`
	PhoneNumber    string `db:"phone_number" json:"phoneNumber"`
	WhatsappNumber string `db:"whatsapp_number" json:"whatsappNumber"`
}
