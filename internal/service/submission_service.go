package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/KeshavK2089/tnplots/internal/model"
	"github.com/KeshavK2089/tnplots/internal/wizard"
)

// SellerStore is the seller lookup the submit path needs.
type SellerStore interface {
	FindOrCreateByPhone(ctx context.Context, s *model.Seller) (*model.Seller, error)
}

// ImageStore persists gallery rows for a plot.
type ImageStore interface {
	CreateImage(ctx context.Context, img *model.PlotImage) error
}

// MediaStore deletes stored blobs; used to clean up a failed submit.
type MediaStore interface {
	Delete(publicID string) error
}

// ImageRef is one already-uploaded photo: its serving URL plus the media
// store id, in gallery order.
type ImageRef struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// ValidationError carries per-field messages back to the submitter. It is
// user input feedback, never logged as a system error.
type ValidationError struct {
	Fields wizard.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("submission invalid: %d field error(s)", len(e.Fields))
}

// SubmissionService turns a completed wizard draft into a pending plot, its
// seller and its gallery rows.
type SubmissionService struct {
	plots   PlotStore
	images  ImageStore
	sellers SellerStore
	media   MediaStore
}

func NewSubmissionService(plots PlotStore, images ImageStore, sellers SellerStore, media MediaStore) *SubmissionService {
	return &SubmissionService{plots: plots, images: images, sellers: sellers, media: media}
}

// Submit is the wizard's terminal action. The draft's photos were uploaded
// beforehand; imageRefs carries their URLs and storage ids in gallery order.
// On a storage failure the uploaded blobs are deleted best-effort so a retry
// does not accumulate orphans, and the caller keeps the draft.
func (s *SubmissionService) Submit(ctx context.Context, draft *wizard.Draft, imageRefs []ImageRef) (string, error) {
	if errs := validateSubmission(draft, imageRefs); len(errs) > 0 {
		return "", &ValidationError{Fields: errs}
	}

	whatsapp := draft.WhatsappNumber
	if whatsapp == "" {
		whatsapp = draft.PhoneNumber
	}
	seller, err := s.sellers.FindOrCreateByPhone(ctx, &model.Seller{
		Name:           draft.SellerName,
		PhoneNumber:    draft.PhoneNumber,
		WhatsappNumber: whatsapp,
		Email:          draft.Email,
	})
	if err != nil {
		s.cleanupMedia(imageRefs)
		return "", fmt.Errorf("SubmissionService.Submit: seller: %w", err)
	}

	pricePerSqft := draft.PricePerSqft
	if pricePerSqft == 0 && draft.SizeSqft > 0 {
		pricePerSqft = int64(math.Round(float64(draft.TotalPrice) / draft.SizeSqft))
	}

	features := draft.Features
	if features == nil {
		features = model.Features{}
	}

	now := time.Now()
	plot := &model.Plot{
		ID:                   uuid.NewString(),
		SellerID:             seller.ID,
		TitleEn:              draft.Title,
		Category:             draft.Category,
		Village:              draft.Village,
		Taluk:                draft.Taluk,
		District:             draft.District,
		State:                "Tamil Nadu",
		SurveyNumber:         draft.SurveyNumber,
		Latitude:             draft.Latitude,
		Longitude:            draft.Longitude,
		DistanceFromMainRoad: draft.DistanceFromMainRoad,
		RoadWidth:            draft.RoadWidth,
		SizeSqft:             draft.SizeSqft,
		SizeCents:            draft.SizeCents,
		TotalPrice:           draft.TotalPrice,
		PricePerSqft:         pricePerSqft,
		Features:             features,
		Status:               model.StatusPending,
		VerificationStatus:   model.VerificationPending,
		SubmittedAt:          &now,
	}

	if err := s.plots.Create(ctx, plot); err != nil {
		s.cleanupMedia(imageRefs)
		return "", fmt.Errorf("SubmissionService.Submit: plot: %w", err)
	}

	// Image rows are independent writes once the plot exists; a failed row
	// degrades the gallery but does not fail the submission.
	for i, ref := range imageRefs {
		img := &model.PlotImage{
			ID:           uuid.NewString(),
			PlotID:       plot.ID,
			URL:          ref.URL,
			PublicID:     ref.PublicID,
			DisplayOrder: i,
			IsFeatured:   i == 0,
		}
		if err := s.images.CreateImage(ctx, img); err != nil {
			log.Printf("plot %s: image row %d failed: %v", plot.ID, i, err)
		}
	}

	return plot.ID, nil
}

// validateSubmission re-runs the wizard's per-step validators over the whole
// draft. Photo binaries were checked at upload time, so the photos step is
// validated against the uploaded reference count instead.
func validateSubmission(draft *wizard.Draft, imageRefs []ImageRef) wizard.FieldErrors {
	errs := wizard.FieldErrors{}
	for _, step := range []wizard.Step{wizard.StepBasicInfo, wizard.StepPlotDetails, wizard.StepContact} {
		for field, msg := range wizard.ValidateStep(step, draft) {
			errs[field] = msg
		}
	}
	if len(imageRefs) < 1 {
		errs["photos"] = "Please upload at least 1 photo"
	} else if len(imageRefs) > wizard.MaxPhotos {
		errs["photos"] = fmt.Sprintf("Maximum %d photos allowed", wizard.MaxPhotos)
	}
	return errs
}

func (s *SubmissionService) cleanupMedia(imageRefs []ImageRef) {
	for _, ref := range imageRefs {
		if ref.PublicID == "" {
			continue
		}
		if err := s.media.Delete(ref.PublicID); err != nil {
			log.Printf("orphaned upload %s not deleted: %v", ref.PublicID, err)
		}
	}
}
