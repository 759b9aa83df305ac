package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/KeshavK2089/tnplots/internal/model"
)

type SellerRepository struct {
	DB *sqlx.DB
}

func NewSellerRepository(db *sqlx.DB) *SellerRepository {
	return &SellerRepository{DB: db}
}

// FindOrCreateByPhone returns the seller owning the phone number, creating
// the record when none exists. The unique index on phone_number arbitrates
// concurrent submissions from the same phone; the no-op DO UPDATE makes the
// insert return the surviving row either way. An existing seller's details
// are never overwritten by a later submission.
func (r *SellerRepository) FindOrCreateByPhone(ctx context.Context, s *model.Seller) (*model.Seller, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	var seller model.Seller
	err := r.DB.GetContext(ctx, &seller, `
		INSERT INTO sellers (id, name, phone_number, whatsapp_number, email)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone_number) DO UPDATE SET phone_number = EXCLUDED.phone_number
		RETURNING id, name, phone_number, whatsapp_number, email, created_at
	`, s.ID, s.Name, s.PhoneNumber, s.WhatsappNumber, s.Email)
	if err != nil {
		return nil, fmt.Errorf("SellerRepository.FindOrCreateByPhone: %w", err)
	}
	return &seller, nil
}

// GetByID returns one seller.
func (r *SellerRepository) GetByID(ctx context.Context, id string) (*model.Seller, error) {
	var seller model.Seller
	err := r.DB.GetContext(ctx, &seller, `
		SELECT id, name, phone_number, whatsapp_number, email, created_at
		FROM sellers WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("SellerRepository.GetByID: %w", err)
	}
	return &seller, nil
}
