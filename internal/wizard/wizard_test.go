package wizard

import (
	"strings"
	"testing"

	"github.com/KeshavK2089/tnplots/internal/model"
)

func validDraft() *Draft {
	return &Draft{
		Title:       "Premium Residential Plot near Main Road",
		Village:     "Cheyyar",
		District:    "Tiruvannamalai",
		Category:    model.CategoryResidential,
		SizeSqft:    2400,
		TotalPrice:  1200000,
		Photos:      []Photo{{Name: "front.jpg", ContentType: "image/jpeg", Size: 1024}},
		SellerName:  "Rajesh Kumar",
		PhoneNumber: "+91 98765 43210",
	}
}

func TestNextAdvancesThroughAllSteps(t *testing.T) {
	d := validDraft()
	step := StepBasicInfo
	for _, want := range []Step{StepPlotDetails, StepFeatures, StepPhotos, StepContact, StepReview} {
		next, errs := Next(step, d)
		if len(errs) > 0 {
			t.Fatalf("Next(%v) returned errors: %v", step, errs)
		}
		if next != want {
			t.Fatalf("Next(%v) = %v, want %v", step, next, want)
		}
		step = next
	}
}

func TestNextFromReviewIsRejected(t *testing.T) {
	d := validDraft()
	next, errs := Next(StepReview, d)
	if next != StepReview || len(errs) == 0 {
		t.Fatalf("Next(StepReview) = %v, %v; want no advance", next, errs)
	}
}

func TestBasicInfoEmptyTitleDoesNotAdvance(t *testing.T) {
	d := validDraft()
	d.Title = ""

	next, errs := Next(StepBasicInfo, d)
	if next != StepBasicInfo {
		t.Fatalf("state advanced to %v despite empty title", next)
	}
	if errs["title"] == "" {
		t.Fatalf("expected title error, got %v", errs)
	}
}

func TestBasicInfoValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		field  string
	}{
		{"missing village", func(d *Draft) { d.Village = "" }, "village"},
		{"missing district", func(d *Draft) { d.District = "" }, "district"},
		{"missing category", func(d *Draft) { d.Category = "" }, "category"},
		{"bad category", func(d *Draft) { d.Category = "industrial" }, "category"},
		{"whitespace title", func(d *Draft) { d.Title = "   " }, "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			errs := ValidateStep(StepBasicInfo, d)
			if errs[tt.field] == "" {
				t.Fatalf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestPlotDetailsDerivesPricePerSqft(t *testing.T) {
	d := validDraft()
	d.SizeSqft = 2400
	d.TotalPrice = 1200000
	d.PricePerSqft = 999 // stale derived value must be overwritten

	next, errs := Next(StepPlotDetails, d)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if next != StepFeatures {
		t.Fatalf("next = %v, want %v", next, StepFeatures)
	}
	if d.PricePerSqft != 500 {
		t.Fatalf("PricePerSqft = %d, want 500", d.PricePerSqft)
	}
}

func TestPlotDetailsDerivationRounds(t *testing.T) {
	d := validDraft()
	d.SizeSqft = 3000
	d.TotalPrice = 1000000

	if _, errs := Next(StepPlotDetails, d); len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if d.PricePerSqft != 333 {
		t.Fatalf("PricePerSqft = %d, want 333", d.PricePerSqft)
	}
}

func TestPlotDetailsRequiresPositiveValues(t *testing.T) {
	d := validDraft()
	d.SizeSqft = 0
	d.TotalPrice = 0

	next, errs := Next(StepPlotDetails, d)
	if next != StepPlotDetails {
		t.Fatalf("state advanced despite invalid details")
	}
	if errs["sizeSqft"] == "" || errs["totalPrice"] == "" {
		t.Fatalf("expected sizeSqft and totalPrice errors, got %v", errs)
	}
}

func TestFeaturesStepHasNoRequiredFields(t *testing.T) {
	d := validDraft()
	d.Features = nil

	next, errs := Next(StepFeatures, d)
	if len(errs) > 0 || next != StepPhotos {
		t.Fatalf("Next(StepFeatures) = %v, %v", next, errs)
	}
}

func TestPhotosStepBounds(t *testing.T) {
	d := validDraft()

	d.Photos = nil
	if next, errs := Next(StepPhotos, d); next != StepPhotos || errs["photos"] == "" {
		t.Fatalf("zero photos must block advancing, got %v, %v", next, errs)
	}

	d.Photos = make([]Photo, 9)
	for i := range d.Photos {
		d.Photos[i] = Photo{Name: "p.jpg", ContentType: "image/jpeg", Size: 1}
	}
	if next, errs := Next(StepPhotos, d); next != StepPhotos || errs["photos"] == "" {
		t.Fatalf("nine photos must block advancing, got %v, %v", next, errs)
	}
}

func TestContactValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		field  string
		ok     bool
	}{
		{"missing name", func(d *Draft) { d.SellerName = "" }, "sellerName", false},
		{"missing phone", func(d *Draft) { d.PhoneNumber = "" }, "phoneNumber", false},
		{"phone with letters", func(d *Draft) { d.PhoneNumber = "98765abc10" }, "phoneNumber", false},
		{"phone with punctuation", func(d *Draft) { d.PhoneNumber = "+91 (44) 987-6543" }, "phoneNumber", true},
		{"bad email", func(d *Draft) { d.Email = "not-an-email" }, "email", false},
		{"email without tld", func(d *Draft) { d.Email = "a@b" }, "email", false},
		{"valid email", func(d *Draft) { d.Email = "seller@example.com" }, "email", true},
		{"no email is fine", func(d *Draft) { d.Email = "" }, "email", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			errs := ValidateStep(StepContact, d)
			if tt.ok && errs[tt.field] != "" {
				t.Fatalf("unexpected error on %q: %v", tt.field, errs)
			}
			if !tt.ok && errs[tt.field] == "" {
				t.Fatalf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestBackNeverValidatesAndNeverDiscards(t *testing.T) {
	d := &Draft{Title: "kept"}

	if got := Back(StepContact); got != StepPhotos {
		t.Fatalf("Back(StepContact) = %v", got)
	}
	if got := Back(StepBasicInfo); got != StepBasicInfo {
		t.Fatalf("Back(StepBasicInfo) = %v, want floor at first step", got)
	}
	if d.Title != "kept" {
		t.Fatalf("Back must not touch draft data")
	}
}

func TestAddPhotosPartialBatchAcceptance(t *testing.T) {
	d := &Draft{}
	batch := []Photo{
		{Name: "ok1.jpg", ContentType: "image/jpeg", Size: 1024},
		{Name: "huge.jpg", ContentType: "image/jpeg", Size: MaxPhotoBytes + 1},
		{Name: "notes.pdf", ContentType: "application/pdf", Size: 1024},
		{Name: "ok2.png", ContentType: "image/png", Size: 2048},
	}

	rejected := AddPhotos(d, batch)
	if len(d.Photos) != 2 {
		t.Fatalf("accepted %d photos, want 2", len(d.Photos))
	}
	if len(rejected) != 2 {
		t.Fatalf("rejected %d candidates, want 2: %v", len(rejected), rejected)
	}
	if d.Photos[0].Name != "ok1.jpg" || d.Photos[1].Name != "ok2.png" {
		t.Fatalf("accepted wrong photos: %+v", d.Photos)
	}
}

func TestAddPhotosEnforcesCap(t *testing.T) {
	d := &Draft{}
	for i := 0; i < MaxPhotos; i++ {
		d.Photos = append(d.Photos, Photo{Name: "p.jpg", ContentType: "image/jpeg", Size: 1})
	}

	rejected := AddPhotos(d, []Photo{{Name: "ninth.jpg", ContentType: "image/jpeg", Size: 1}})
	if len(d.Photos) != MaxPhotos {
		t.Fatalf("photo count = %d, want %d", len(d.Photos), MaxPhotos)
	}
	if len(rejected) != 1 || !strings.Contains(rejected[0].Error(), "maximum") {
		t.Fatalf("expected cap rejection, got %v", rejected)
	}
}

func TestValidateMergesAllSteps(t *testing.T) {
	errs := Validate(&Draft{})
	for _, field := range []string{"title", "village", "district", "category", "sizeSqft", "totalPrice", "photos", "sellerName", "phoneNumber"} {
		if errs[field] == "" {
			t.Fatalf("Validate missing error for %q: %v", field, errs)
		}
	}

	if errs := Validate(validDraft()); len(errs) != 0 {
		t.Fatalf("valid draft produced errors: %v", errs)
	}
}
