package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/KeshavK2089/tnplots/internal/model"
	"github.com/KeshavK2089/tnplots/internal/repository"
)

// ErrNotFound is returned when a plot does not exist or is not publicly
// visible. The public path does not distinguish the two.
var ErrNotFound = errors.New("plot not found")

const pageCacheTTL = 60 * time.Second

// PlotStore is the slice of plot storage the listing read/create paths need.
type PlotStore interface {
	Search(ctx context.Context, p repository.SearchParams) (*model.PlotPage, error)
	GetByID(ctx context.Context, id string) (*model.Plot, error)
	Create(ctx context.Context, p *model.Plot) error
	IncrementViews(ctx context.Context, id string) error
}

// PageCache caches serialized browse pages. Implementations must fail open.
type PageCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// ListingService owns the browse/search/detail read paths and the admin
// direct-create path.
type ListingService struct {
	plots PlotStore
	cache PageCache
}

func NewListingService(plots PlotStore, cache PageCache) *ListingService {
	return &ListingService{plots: plots, cache: cache}
}

// Search executes the filter pipeline. It never fails: a storage error is
// logged and degrades to an empty page, a deliberate fail-soft default for
// best-effort browsing.
func (s *ListingService) Search(ctx context.Context, p repository.SearchParams) *model.PlotPage {
	p = p.Normalized()
	key := searchCacheKey(p)

	if cached, ok := s.cache.Get(ctx, key); ok {
		var page model.PlotPage
		if err := json.Unmarshal([]byte(cached), &page); err == nil {
			return &page
		}
	}

	page, err := s.plots.Search(ctx, p)
	if err != nil {
		log.Printf("listing search failed: %v", err)
		return emptyPage(p)
	}

	if encoded, err := json.Marshal(page); err == nil {
		s.cache.Set(ctx, key, string(encoded), pageCacheTTL)
	}
	return page
}

// GetVisibleByID returns one publicly visible plot and bumps its view
// counter best-effort. Missing, hidden and failed reads all surface as
// ErrNotFound.
func (s *ListingService) GetVisibleByID(ctx context.Context, id string) (*model.Plot, error) {
	plot, err := s.plots.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("plot detail read failed: %v", err)
		}
		return nil, ErrNotFound
	}
	if !plot.Visible() {
		return nil, ErrNotFound
	}

	if err := s.plots.IncrementViews(ctx, id); err != nil {
		log.Printf("view count increment failed for plot %s: %v", id, err)
	}
	return plot, nil
}

// CreateDirect inserts a plot on behalf of the administrator. A plot created
// directly with active status is published immediately; that is the only
// moment published_at is stamped outside the approve transition.
func (s *ListingService) CreateDirect(ctx context.Context, plot *model.Plot) (*model.Plot, error) {
	if plot.ID == "" {
		plot.ID = uuid.NewString()
	}
	if plot.State == "" {
		plot.State = "Tamil Nadu"
	}
	if plot.Status == "" {
		plot.Status = model.StatusPending
	}
	if plot.VerificationStatus == "" {
		plot.VerificationStatus = model.VerificationPending
	}
	if plot.Features == nil {
		plot.Features = model.Features{}
	}
	if plot.Status == model.StatusActive && plot.PublishedAt == nil {
		now := time.Now()
		plot.PublishedAt = &now
	}

	if err := s.plots.Create(ctx, plot); err != nil {
		return nil, fmt.Errorf("ListingService.CreateDirect: %w", err)
	}
	return plot, nil
}

func emptyPage(p repository.SearchParams) *model.PlotPage {
	return &model.PlotPage{
		Plots:   []model.Plot{},
		Page:    p.Page,
		PerPage: p.PerPage,
	}
}

func searchCacheKey(p repository.SearchParams) string {
	deref64 := func(v *int64) interface{} {
		if v == nil {
			return ""
		}
		return *v
	}
	derefF := func(v *float64) interface{} {
		if v == nil {
			return ""
		}
		return *v
	}
	return fmt.Sprintf("plots:search:%s|%v|%v|%v|%v|%s|%s|%d|%d|%t",
		p.Category, deref64(p.MinPrice), deref64(p.MaxPrice),
		derefF(p.MinSize), derefF(p.MaxSize),
		p.Village, p.Search, p.Page, p.PerPage, p.PublicOnly)
}
