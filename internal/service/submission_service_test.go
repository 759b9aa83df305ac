package service

import (
	"context"
	"errors"
	"testing"

	"github.com/KeshavK2089/tnplots/internal/model"
	"github.com/KeshavK2089/tnplots/internal/wizard"
)

type fakeSellerStore struct {
	existing map[string]*model.Seller // keyed by phone
	created  []*model.Seller
	err      error
}

func (f *fakeSellerStore) FindOrCreateByPhone(_ context.Context, s *model.Seller) (*model.Seller, error) {
	if f.err != nil {
		return nil, f.err
	}
	if existing, ok := f.existing[s.PhoneNumber]; ok {
		cp := *existing
		return &cp, nil
	}
	f.created = append(f.created, s)
	cp := *s
	return &cp, nil
}

type fakeMedia struct {
	deleted []string
}

func (f *fakeMedia) Delete(publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func completeDraft() *wizard.Draft {
	return &wizard.Draft{
		Title:       "Premium Residential Plot near Main Road",
		Village:     "Cheyyar",
		District:    "Tiruvannamalai",
		Category:    model.CategoryResidential,
		SizeSqft:    2400,
		TotalPrice:  1200000,
		Features:    model.Features{"road_access": true, "electricity": true},
		SellerName:  "Rajesh Kumar",
		PhoneNumber: "9876543210",
	}
}

func imageRefs(n int) []ImageRef {
	refs := make([]ImageRef, n)
	for i := range refs {
		refs[i] = ImageRef{URL: "/api/photos/blob", PublicID: "blob"}
	}
	return refs
}

func newSubmissionFixture() (*SubmissionService, *fakePlotStore, *fakeSellerStore, *fakeMedia) {
	plots := &fakePlotStore{}
	sellers := &fakeSellerStore{}
	media := &fakeMedia{}
	return NewSubmissionService(plots, plots, sellers, media), plots, sellers, media
}

func TestSubmitCreatesPendingPlotWithImages(t *testing.T) {
	svc, plots, sellers, _ := newSubmissionFixture()

	refs := []ImageRef{
		{URL: "/api/photos/a", PublicID: "a"},
		{URL: "/api/photos/b", PublicID: "b"},
	}
	plotID, err := svc.Submit(context.Background(), completeDraft(), refs)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if plotID == "" {
		t.Fatal("empty plot id")
	}

	if len(plots.created) != 1 {
		t.Fatalf("created %d plots", len(plots.created))
	}
	plot := plots.created[0]
	if plot.Status != model.StatusPending || plot.VerificationStatus != model.VerificationPending {
		t.Fatalf("submitted plot is %s/%s, want pending/pending", plot.Status, plot.VerificationStatus)
	}
	if plot.SubmittedAt == nil {
		t.Fatal("submitted_at not stamped")
	}
	if plot.PublishedAt != nil {
		t.Fatal("a submission must not be published")
	}
	if plot.PricePerSqft != 500 {
		t.Fatalf("price per sqft = %d, want 500", plot.PricePerSqft)
	}

	if len(plots.images) != 2 {
		t.Fatalf("created %d image rows", len(plots.images))
	}
	if !plots.images[0].IsFeatured || plots.images[1].IsFeatured {
		t.Fatalf("only the first image is featured: %+v", plots.images)
	}
	if plots.images[0].DisplayOrder != 0 || plots.images[1].DisplayOrder != 1 {
		t.Fatalf("display order must follow upload order: %+v", plots.images)
	}

	if len(sellers.created) != 1 {
		t.Fatalf("created %d sellers", len(sellers.created))
	}
}

func TestSubmitDefaultsWhatsappToPhone(t *testing.T) {
	svc, _, sellers, _ := newSubmissionFixture()

	if _, err := svc.Submit(context.Background(), completeDraft(), imageRefs(1)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sellers.created[0].WhatsappNumber != "9876543210" {
		t.Fatalf("whatsapp number = %q, want the primary phone", sellers.created[0].WhatsappNumber)
	}
}

func TestSubmitReusesExistingSeller(t *testing.T) {
	svc, plots, sellers, _ := newSubmissionFixture()
	sellers.existing = map[string]*model.Seller{
		"9876543210": {ID: "seller-1", Name: "Rajesh Kumar", PhoneNumber: "9876543210"},
	}

	if _, err := svc.Submit(context.Background(), completeDraft(), imageRefs(1)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(sellers.created) != 0 {
		t.Fatalf("created a duplicate seller for a known phone")
	}
	if plots.created[0].SellerID != "seller-1" {
		t.Fatalf("plot not linked to existing seller: %q", plots.created[0].SellerID)
	}
}

func TestSubmitRejectsInvalidDraft(t *testing.T) {
	svc, plots, _, _ := newSubmissionFixture()

	draft := completeDraft()
	draft.Title = ""
	draft.PhoneNumber = "not a phone!"

	_, err := svc.Submit(context.Background(), draft, imageRefs(1))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if verr.Fields["title"] == "" || verr.Fields["phoneNumber"] == "" {
		t.Fatalf("missing field errors: %v", verr.Fields)
	}
	if len(plots.created) != 0 {
		t.Fatal("invalid draft must not persist anything")
	}
}

func TestSubmitRejectsBadPhotoCounts(t *testing.T) {
	svc, _, _, _ := newSubmissionFixture()

	var verr *ValidationError
	if _, err := svc.Submit(context.Background(), completeDraft(), nil); !errors.As(err, &verr) {
		t.Fatalf("zero photos: err = %v", err)
	}
	if _, err := svc.Submit(context.Background(), completeDraft(), imageRefs(9)); !errors.As(err, &verr) {
		t.Fatalf("nine photos: err = %v", err)
	}
}

func TestSubmitCleansUpMediaOnPersistFailure(t *testing.T) {
	svc, plots, _, media := newSubmissionFixture()
	plots.createErr = errors.New("connection refused")

	refs := []ImageRef{
		{URL: "/api/photos/a", PublicID: "a"},
		{URL: "/api/photos/b", PublicID: "b"},
	}
	_, err := svc.Submit(context.Background(), completeDraft(), refs)
	if err == nil {
		t.Fatal("expected failure")
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		t.Fatalf("storage failure must not surface as a validation error: %v", err)
	}
	if len(media.deleted) != 2 {
		t.Fatalf("deleted %d blobs, want 2 (orphan cleanup)", len(media.deleted))
	}
}

func TestSubmitCleansUpMediaOnSellerFailure(t *testing.T) {
	svc, _, sellers, media := newSubmissionFixture()
	sellers.err = errors.New("connection refused")

	if _, err := svc.Submit(context.Background(), completeDraft(), imageRefs(1)); err == nil {
		t.Fatal("expected failure")
	}
	if len(media.deleted) != 1 {
		t.Fatalf("deleted %d blobs, want 1", len(media.deleted))
	}
}
