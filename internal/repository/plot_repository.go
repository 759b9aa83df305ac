package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/KeshavK2089/tnplots/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

const plotColumns = `id, seller_id, title_en, title_ta, description_en, description_ta,
	category, village, taluk, district, state, survey_number,
	latitude, longitude, distance_from_main_road, road_width,
	size_sqft, size_cents, total_price, price_per_sqft, is_negotiable,
	features, status, verification_status, is_featured, view_count,
	submission_notes, submitted_at, reviewed_at, published_at, created_at`

type PlotRepository struct {
	DB *sqlx.DB
}

func NewPlotRepository(db *sqlx.DB) *PlotRepository {
	return &PlotRepository{DB: db}
}

// SearchParams are the optional browse filters. Structured filters are
// AND-combined; Search is an OR-group over title, village and survey number.
// PublicOnly adds the verification clause used on buyer-facing endpoints.
type SearchParams struct {
	Category   string
	MinPrice   *int64
	MaxPrice   *int64
	MinSize    *float64
	MaxSize    *float64
	Village    string
	Search     string
	Page       int
	PerPage    int
	PublicOnly bool
}

const DefaultPerPage = 12

// Normalized clamps the pagination window to its defaults.
func (p SearchParams) Normalized() SearchParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	return p
}

// buildSearchWhere translates the filter set into a WHERE clause and its
// positional args.
func buildSearchWhere(p SearchParams) (string, []interface{}) {
	query := "WHERE status = 'active'"
	if p.PublicOnly {
		query += " AND verification_status = 'approved'"
	}
	args := []interface{}{}
	idx := 1

	if p.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", idx)
		args = append(args, p.Category)
		idx++
	}
	if p.MinPrice != nil {
		query += fmt.Sprintf(" AND total_price >= $%d", idx)
		args = append(args, *p.MinPrice)
		idx++
	}
	if p.MaxPrice != nil {
		query += fmt.Sprintf(" AND total_price <= $%d", idx)
		args = append(args, *p.MaxPrice)
		idx++
	}
	if p.MinSize != nil {
		query += fmt.Sprintf(" AND size_sqft >= $%d", idx)
		args = append(args, *p.MinSize)
		idx++
	}
	if p.MaxSize != nil {
		query += fmt.Sprintf(" AND size_sqft <= $%d", idx)
		args = append(args, *p.MaxSize)
		idx++
	}
	if p.Village != "" {
		query += fmt.Sprintf(" AND village ILIKE $%d", idx)
		args = append(args, "%"+p.Village+"%")
		idx++
	}
	if p.Search != "" {
		query += fmt.Sprintf(" AND (title_en ILIKE $%d OR village ILIKE $%d OR survey_number ILIKE $%d)",
			idx, idx+1, idx+2)
		needle := "%" + p.Search + "%"
		args = append(args, needle, needle, needle)
		idx += 3
	}

	return query, args
}

// Search returns one page of plots matching the filters, featured first and
// most recently published next, with images and seller contact loaded. The
// total is an independent count, not derived from the page.
func (r *PlotRepository) Search(ctx context.Context, p SearchParams) (*model.PlotPage, error) {
	p = p.Normalized()
	where, args := buildSearchWhere(p)

	var total int
	countQuery := "SELECT COUNT(*) FROM plots " + where
	if err := r.DB.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("PlotRepository.Search: count: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM plots %s
		ORDER BY is_featured DESC, published_at DESC NULLS LAST
		LIMIT $%d OFFSET $%d`, plotColumns, where, len(args)+1, len(args)+2)
	args = append(args, p.PerPage, (p.Page-1)*p.PerPage)

	var plots []model.Plot
	if err := r.DB.SelectContext(ctx, &plots, query, args...); err != nil {
		return nil, fmt.Errorf("PlotRepository.Search: select: %w", err)
	}

	if err := r.loadImages(ctx, plots); err != nil {
		return nil, fmt.Errorf("PlotRepository.Search: %w", err)
	}
	if err := r.loadSellers(ctx, plots); err != nil {
		return nil, fmt.Errorf("PlotRepository.Search: %w", err)
	}

	if plots == nil {
		plots = []model.Plot{}
	}
	return &model.PlotPage{
		Plots:      plots,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: (total + p.PerPage - 1) / p.PerPage,
	}, nil
}

// GetByID returns one plot with its images and seller contact.
func (r *PlotRepository) GetByID(ctx context.Context, id string) (*model.Plot, error) {
	var plot model.Plot
	query := fmt.Sprintf("SELECT %s FROM plots WHERE id = $1", plotColumns)
	if err := r.DB.GetContext(ctx, &plot, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("PlotRepository.GetByID: %w", err)
	}

	plots := []model.Plot{plot}
	if err := r.loadImages(ctx, plots); err != nil {
		return nil, fmt.Errorf("PlotRepository.GetByID: %w", err)
	}
	if err := r.loadSellers(ctx, plots); err != nil {
		return nil, fmt.Errorf("PlotRepository.GetByID: %w", err)
	}
	return &plots[0], nil
}

// Create inserts a plot row.
func (r *PlotRepository) Create(ctx context.Context, p *model.Plot) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO plots
			(id, seller_id, title_en, title_ta, description_en, description_ta,
			 category, village, taluk, district, state, survey_number,
			 latitude, longitude, distance_from_main_road, road_width,
			 size_sqft, size_cents, total_price, price_per_sqft, is_negotiable,
			 features, status, verification_status, is_featured,
			 submission_notes, submitted_at, published_at)
		VALUES
			(:id, :seller_id, :title_en, :title_ta, :description_en, :description_ta,
			 :category, :village, :taluk, :district, :state, :survey_number,
			 :latitude, :longitude, :distance_from_main_road, :road_width,
			 :size_sqft, :size_cents, :total_price, :price_per_sqft, :is_negotiable,
			 :features, :status, :verification_status, :is_featured,
			 :submission_notes, :submitted_at, :published_at)
	`, p)
	if err != nil {
		return fmt.Errorf("PlotRepository.Create: %w", err)
	}
	return nil
}

// CreateImage inserts one gallery image row.
func (r *PlotRepository) CreateImage(ctx context.Context, img *model.PlotImage) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO plot_images (id, plot_id, url, public_id, display_order, is_featured)
		VALUES (:id, :plot_id, :url, :public_id, :display_order, :is_featured)
	`, img)
	if err != nil {
		return fmt.Errorf("PlotRepository.CreateImage: %w", err)
	}
	return nil
}

// GetPending returns plots awaiting review, newest submissions first, with
// seller contact loaded for the moderation queue.
func (r *PlotRepository) GetPending(ctx context.Context) ([]model.Plot, error) {
	var plots []model.Plot
	query := fmt.Sprintf(`SELECT %s FROM plots
		WHERE status = 'pending' AND verification_status = 'pending'
		ORDER BY submitted_at DESC`, plotColumns)
	if err := r.DB.SelectContext(ctx, &plots, query); err != nil {
		return nil, fmt.Errorf("PlotRepository.GetPending: %w", err)
	}
	if err := r.loadImages(ctx, plots); err != nil {
		return nil, fmt.Errorf("PlotRepository.GetPending: %w", err)
	}
	if err := r.loadSellers(ctx, plots); err != nil {
		return nil, fmt.Errorf("PlotRepository.GetPending: %w", err)
	}
	return plots, nil
}

// Approve marks the plot live. published_at is stamped only the first time a
// plot becomes active; re-approval never restamps it.
func (r *PlotRepository) Approve(ctx context.Context, id string) (*model.Plot, error) {
	var plot model.Plot
	query := fmt.Sprintf(`
		UPDATE plots
		SET status = 'active',
		    verification_status = 'approved',
		    reviewed_at = now(),
		    published_at = COALESCE(published_at, now())
		WHERE id = $1
		RETURNING %s`, plotColumns)
	if err := r.DB.GetContext(ctx, &plot, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("PlotRepository.Approve: %w", err)
	}
	return &plot, nil
}

// Reject marks the plot rejected and records the administrator's reason.
func (r *PlotRepository) Reject(ctx context.Context, id, reason string) (*model.Plot, error) {
	var plot model.Plot
	query := fmt.Sprintf(`
		UPDATE plots
		SET status = 'rejected',
		    verification_status = 'rejected',
		    reviewed_at = now(),
		    submission_notes = $2
		WHERE id = $1
		RETURNING %s`, plotColumns)
	if err := r.DB.GetContext(ctx, &plot, query, id, reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("PlotRepository.Reject: %w", err)
	}
	return &plot, nil
}

// IncrementViews bumps the view counter.
func (r *PlotRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE plots SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("PlotRepository.IncrementViews: %w", err)
	}
	return nil
}

func (r *PlotRepository) loadImages(ctx context.Context, plots []model.Plot) error {
	if len(plots) == 0 {
		return nil
	}
	ids := make([]string, len(plots))
	for i := range plots {
		ids[i] = plots[i].ID
	}

	var images []model.PlotImage
	err := r.DB.SelectContext(ctx, &images, `
		SELECT id, plot_id, url, public_id, display_order, is_featured, created_at
		FROM plot_images
		WHERE plot_id = ANY($1)
		ORDER BY plot_id, display_order ASC
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load images: %w", err)
	}

	byPlot := make(map[string][]model.PlotImage, len(plots))
	for _, img := range images {
		byPlot[img.PlotID] = append(byPlot[img.PlotID], img)
	}
	for i := range plots {
		plots[i].Images = byPlot[plots[i].ID]
	}
	return nil
}

func (r *PlotRepository) loadSellers(ctx context.Context, plots []model.Plot) error {
	if len(plots) == 0 {
		return nil
	}
	ids := make([]string, len(plots))
	for i := range plots {
		ids[i] = plots[i].SellerID
	}

	var rows []struct {
		ID             string `db:"id"`
		Name           string `db:"name"`
		PhoneNumber    string `db:"phone_number"`
		WhatsappNumber string `db:"whatsapp_number"`
	}
	err := r.DB.SelectContext(ctx, &rows, `
		SELECT id, name, phone_number, whatsapp_number
		FROM sellers
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load sellers: %w", err)
	}

	byID := make(map[string]model.SellerContact, len(rows))
	for _, s := range rows {
		byID[s.ID] = model.SellerContact{
			Name:           s.Name,
			PhoneNumber:    s.PhoneNumber,
			WhatsappNumber: s.WhatsappNumber,
		}
	}
	for i := range plots {
		if contact, ok := byID[plots[i].SellerID]; ok {
			c := contact
			plots[i].Seller = &c
		}
	}
	return nil
}
