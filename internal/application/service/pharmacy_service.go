package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/internal/domain/repository"
	"github.com/rxledger/pharmacy-api/pkg/apperror"
)

// PharmacyService handles super-admin pharmacy administration
type PharmacyService struct {
	pharmacyRepo repository.PharmacyRepository
}

// NewPharmacyService creates a new pharmacy service
func NewPharmacyService(pharmacyRepo repository.PharmacyRepository) *PharmacyService {
	return &PharmacyService{pharmacyRepo: pharmacyRepo}
}

// ListPharmacies returns pharmacies, optionally filtered by status
func (s *PharmacyService) ListPharmacies(ctx context.Context, status *enum.PharmacyStatus) ([]entity.Pharmacy, error) {
	if status != nil && !status.Valid() {
		return nil, apperror.NewBadRequestError("Status must be Pending, Approved or Rejected")
	}
	return s.pharmacyRepo.List(ctx, status)
}

// UpdateStatus approves or rejects a pending pharmacy
func (s *PharmacyService) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.PharmacyStatus) (*entity.Pharmacy, error) {
	if status != enum.PharmacyStatusApproved && status != enum.PharmacyStatusRejected {
		return nil, apperror.NewBadRequestError("Status must be Approved or Rejected")
	}

	pharmacy, err := s.pharmacyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil {
		return nil, apperror.NewNotFoundError("Pharmacy")
	}

	pharmacy.Status = status
	if err := s.pharmacyRepo.Update(ctx, pharmacy); err != nil {
		return nil, err
	}

	log.Info().
		Str("pharmacy_id", pharmacy.ID.String()).
		Str("status", status.String()).
		Msg("pharmacy status updated")
	return pharmacy, nil
}
