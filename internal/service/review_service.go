package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/KeshavK2089/tnplots/internal/model"
)

// DefaultRejectionReason is recorded when the administrator supplies none.
const DefaultRejectionReason = "Submission rejected"

// ErrAlreadyReviewed is returned when a decision is applied to a plot that
// has already been decided the other way. Re-applying the same decision is a
// no-op, not an error.
var ErrAlreadyReviewed = errors.New("plot already reviewed")

// ReviewStore is the slice of plot storage the review workflow needs.
type ReviewStore interface {
	GetByID(ctx context.Context, id string) (*model.Plot, error)
	GetPending(ctx context.Context) ([]model.Plot, error)
	Approve(ctx context.Context, id string) (*model.Plot, error)
	Reject(ctx context.Context, id, reason string) (*model.Plot, error)
}

// ReviewService transitions submitted plots through the pending →
// active+approved / rejected+rejected workflow. Both outcomes are terminal.
type ReviewService struct {
	plots ReviewStore
}

func NewReviewService(plots ReviewStore) *ReviewService {
	return &ReviewService{plots: plots}
}

// Pending returns the moderation queue, newest submissions first.
func (s *ReviewService) Pending(ctx context.Context) ([]model.Plot, error) {
	plots, err := s.plots.GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.Pending: %w", err)
	}
	return plots, nil
}

// Approve makes a pending plot live. Approving an already-approved plot is a
// no-op success; approving a rejected plot fails with ErrAlreadyReviewed.
func (s *ReviewService) Approve(ctx context.Context, plotID string) (*model.Plot, error) {
	plot, err := s.plots.GetByID(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.Approve: %w", err)
	}

	switch plot.Status {
	case model.StatusActive:
		if plot.VerificationStatus == model.VerificationApproved {
			return plot, nil
		}
	case model.StatusPending:
		// fall through to the transition
	default:
		return nil, ErrAlreadyReviewed
	}

	approved, err := s.plots.Approve(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.Approve: %w", err)
	}
	return approved, nil
}

// Reject declines a pending plot, recording the administrator's reason (or
// the default message when omitted) and the review timestamp. Rejecting an
// already-rejected plot is a no-op success; rejecting an active plot fails
// with ErrAlreadyReviewed.
func (s *ReviewService) Reject(ctx context.Context, plotID, reason string) (*model.Plot, error) {
	plot, err := s.plots.GetByID(ctx, plotID)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.Reject: %w", err)
	}

	switch plot.Status {
	case model.StatusRejected:
		return plot, nil
	case model.StatusPending:
		// fall through to the transition
	default:
		return nil, ErrAlreadyReviewed
	}

	if reason == "" {
		reason = DefaultRejectionReason
	}
	rejected, err := s.plots.Reject(ctx, plotID, reason)
	if err != nil {
		return nil, fmt.Errorf("ReviewService.Reject: %w", err)
	}
	return rejected, nil
}
