// Package wizard drives the six-step plot submission flow as an explicit
// state machine: a step enumeration plus a lookup table mapping each step to
// its validator. The draft is accumulated client-side; nothing is persisted
// until the terminal submit.
package wizard

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/KeshavK2089/tnplots/internal/model"
)

type Step int

const (
	StepBasicInfo Step = iota
	StepPlotDetails
	StepFeatures
	StepPhotos
	StepContact
	StepReview
)

var stepNames = map[Step]string{
	StepBasicInfo:   "basic_info",
	StepPlotDetails: "plot_details",
	StepFeatures:    "features",
	StepPhotos:      "photos",
	StepContact:     "contact",
	StepReview:      "review",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is one of the six wizard steps.
func (s Step) Valid() bool {
	return s >= StepBasicInfo && s <= StepReview
}

const (
	MaxPhotos     = 8
	MaxPhotoBytes = 5 * 1024 * 1024
)

var (
	phoneRe = regexp.MustCompile(`^[\d\s+\-()]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Photo is one candidate gallery image held in the draft.
type Photo struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// Draft accumulates the submission across steps. Zero value is the draft at
// wizard start: everything empty, all amenities unselected.
type Draft struct {
	// Basic info
	Title        string `json:"title"`
	Village      string `json:"village"`
	Taluk        string `json:"taluk"`
	District     string `json:"district"`
	SurveyNumber string `json:"surveyNumber"`
	Category     string `json:"category"`

	// Plot details
	SizeSqft             float64  `json:"sizeSqft"`
	SizeCents            *float64 `json:"sizeCents,omitempty"`
	TotalPrice           int64    `json:"totalPrice"`
	PricePerSqft         int64    `json:"pricePerSqft"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
	DistanceFromMainRoad *float64 `json:"distanceFromMainRoad,omitempty"`
	RoadWidth            *float64 `json:"roadWidth,omitempty"`

	// Features
	Features model.Features `json:"features"`

	// Photos
	Photos []Photo `json:"photos"`

	// Contact
	SellerName     string `json:"sellerName"`
	PhoneNumber    string `json:"phoneNumber"`
	WhatsappNumber string `json:"whatsappNumber"`
	Email          string `json:"email"`
}

// FieldErrors maps a field name to its validation message. Empty means valid.
type FieldErrors map[string]string

type validatorFunc func(*Draft) FieldErrors

// validators maps each step to the check over its slice of the draft.
// Features and Review have no required fields.
var validators = map[Step]validatorFunc{
	StepBasicInfo:   validateBasicInfo,
	StepPlotDetails: validatePlotDetails,
	StepFeatures:    func(*Draft) FieldErrors { return nil },
	StepPhotos:      validatePhotos,
	StepContact:     validateContact,
	StepReview:      func(*Draft) FieldErrors { return nil },
}

func validateBasicInfo(d *Draft) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "Plot title is required"
	}
	if strings.TrimSpace(d.Village) == "" {
		errs["village"] = "Village name is required"
	}
	if strings.TrimSpace(d.District) == "" {
		errs["district"] = "District is required"
	}
	if d.Category == "" {
		errs["category"] = "Category is required"
	} else if !model.ValidCategory(d.Category) {
		errs["category"] = "Category must be residential, agricultural or commercial"
	}
	return errs
}

func validatePlotDetails(d *Draft) FieldErrors {
	errs := FieldErrors{}
	if d.SizeSqft <= 0 {
		errs["sizeSqft"] = "Plot size is required"
	}
	if d.TotalPrice <= 0 {
		errs["totalPrice"] = "Total price is required"
	}
	return errs
}

func validatePhotos(d *Draft) FieldErrors {
	errs := FieldErrors{}
	if len(d.Photos) < 1 {
		errs["photos"] = "Please upload at least 1 photo"
	} else if len(d.Photos) > MaxPhotos {
		errs["photos"] = fmt.Sprintf("Maximum %d photos allowed", MaxPhotos)
	}
	return errs
}

func validateContact(d *Draft) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(d.SellerName) == "" {
		errs["sellerName"] = "Your name is required"
	}
	if d.PhoneNumber == "" {
		errs["phoneNumber"] = "Phone number is required"
	} else if !phoneRe.MatchString(d.PhoneNumber) {
		errs["phoneNumber"] = "Invalid phone number format"
	}
	if d.Email != "" && !emailRe.MatchString(d.Email) {
		errs["email"] = "Invalid email format"
	}
	return errs
}

// ValidateStep runs a single step's validator against the draft.
func ValidateStep(step Step, d *Draft) FieldErrors {
	v, ok := validators[step]
	if !ok {
		return FieldErrors{"step": "unknown step"}
	}
	return v(d)
}

// Next validates the current step and, on success, advances by one. On
// validation failure the returned step equals the current one and the field
// errors are non-empty. Leaving PlotDetails derives the price per sqft from
// total price and size, overwriting any previously derived value.
func Next(step Step, d *Draft) (Step, FieldErrors) {
	if !step.Valid() || step == StepReview {
		return step, FieldErrors{"step": "no next step"}
	}
	if errs := ValidateStep(step, d); len(errs) > 0 {
		return step, errs
	}
	if step == StepPlotDetails {
		d.PricePerSqft = int64(math.Round(float64(d.TotalPrice) / d.SizeSqft))
	}
	return step + 1, nil
}

// Back decrements the step without validation and never touches draft data.
func Back(step Step) Step {
	if step <= StepBasicInfo {
		return StepBasicInfo
	}
	return step - 1
}

// AddPhotos admits candidate photos into the draft one by one: non-image
// media types, files over the size cap and candidates beyond the 8-photo
// limit are rejected individually, while conforming photos in the same batch
// are still accepted. Returns one error per rejected candidate.
func AddPhotos(d *Draft, batch []Photo) []error {
	var rejected []error
	for _, p := range batch {
		if err := CheckPhoto(p); err != nil {
			rejected = append(rejected, err)
			continue
		}
		if len(d.Photos) >= MaxPhotos {
			rejected = append(rejected, fmt.Errorf("%s: maximum %d photos allowed", p.Name, MaxPhotos))
			continue
		}
		d.Photos = append(d.Photos, p)
	}
	return rejected
}

// CheckPhoto validates a single candidate against the media type and size
// rules. The media store applies the same limits server-side as a second
// line of defense.
func CheckPhoto(p Photo) error {
	if !strings.HasPrefix(p.ContentType, "image/") {
		return fmt.Errorf("%s is not an image file", p.Name)
	}
	if p.Size > MaxPhotoBytes {
		return fmt.Errorf("%s is larger than 5MB", p.Name)
	}
	return nil
}

// Validate runs every step's validator and merges the results. Used for the
// server-side check at terminal submit, where the whole draft must hold.
func Validate(d *Draft) FieldErrors {
	errs := FieldErrors{}
	for step := StepBasicInfo; step <= StepReview; step++ {
		for field, msg := range validators[step](d) {
			errs[field] = msg
		}
	}
	return errs
}
