package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Plot lifecycle status.
const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
)

// Admin verification status, an independent axis from lifecycle status.
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

const (
	CategoryResidential  = "residential"
	CategoryAgricultural = "agricultural"
	CategoryCommercial   = "commercial"
)

// ValidCategory reports whether c is one of the fixed plot categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryResidential, CategoryAgricultural, CategoryCommercial:
		return true
	}
	return false
}

// Features maps an amenity name (road_access, electricity, water_supply, ...)
// to its presence. Stored as a JSONB column.
type Features map[string]bool

func (f Features) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

func (f *Features) Scan(src interface{}) error {
	if src == nil {
		*f = Features{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("Features.Scan: unexpected type %T", src)
	}
	return json.Unmarshal(b, f)
}

type Plot struct {
	ID            string `db:"id" json:"id"`
	SellerID      string `db:"seller_id" json:"sellerId"`
	TitleEn       string `db:"title_en" json:"titleEn"`
	TitleTa       string `db:"title_ta" json:"titleTa,omitempty"`
	DescriptionEn string `db:"description_en" json:"descriptionEn,omitempty"`
	DescriptionTa string `db:"description_ta" json:"descriptionTa,omitempty"`
	Category      string `db:"category" json:"category"`

	Village              string   `db:"village" json:"village"`
	Taluk                string   `db:"taluk" json:"taluk,omitempty"`
	District             string   `db:"district" json:"district"`
	State                string   `db:"state" json:"state"`
	SurveyNumber         string   `db:"survey_number" json:"surveyNumber,omitempty"`
	Latitude             *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude            *float64 `db:"longitude" json:"longitude,omitempty"`
	DistanceFromMainRoad *float64 `db:"distance_from_main_road" json:"distanceFromMainRoad,omitempty"`
	RoadWidth            *float64 `db:"road_width" json:"roadWidth,omitempty"`

	SizeSqft     float64  `db:"size_sqft" json:"sizeSqft"`
	SizeCents    *float64 `db:"size_cents" json:"sizeCents,omitempty"`
	TotalPrice   int64    `db:"total_price" json:"totalPrice"`
	PricePerSqft int64    `db:"price_per_sqft" json:"pricePerSqft"`
	IsNegotiable bool     `db:"is_negotiable" json:"isNegotiable"`

	Features Features `db:"features" json:"features"`

	Status             string `db:"status" json:"status"`
	VerificationStatus string `db:"verification_status" json:"verificationStatus"`
	IsFeatured         bool   `db:"is_featured" json:"isFeatured"`
	ViewCount          int64  `db:"view_count" json:"viewCount"`
	SubmissionNotes    string `db:"submission_notes" json:"submissionNotes,omitempty"`

	SubmittedAt *time.Time `db:"submitted_at" json:"submittedAt,omitempty"`
	ReviewedAt  *time.Time `db:"reviewed_at" json:"reviewedAt,omitempty"`
	PublishedAt *time.Time `db:"published_at" json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`

	// Loaded relations, not columns.
	Images []PlotImage    `db:"-" json:"images,omitempty"`
	Seller *SellerContact `db:"-" json:"seller,omitempty"`
}

// Visible reports whether buyers may see the plot.
func (p *Plot) Visible() bool {
	return p.Status == StatusActive && p.VerificationStatus == VerificationApproved
}

// PlotImage is one image of a plot's gallery. DisplayOrder defines the
// gallery sequence; the image at order 0 is the featured card image.
type PlotImage struct {
	ID           string    `db:"id" json:"id"`
	PlotID       string    `db:"plot_id" json:"plotId"`
	URL          string    `db:"url" json:"url"`
	PublicID     string    `db:"public_id" json:"publicId"`
	DisplayOrder int       `db:"display_order" json:"displayOrder"`
	IsFeatured   bool      `db:"is_featured" json:"isFeatured"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// PlotPage is one page of search results together with its pagination facts.
type PlotPage struct {
	Plots      []Plot `json:"plots"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
	TotalPages int    `json:"totalPages"`
}
