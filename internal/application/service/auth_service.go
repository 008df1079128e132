package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/internal/domain/repository"
	"github.com/rxledger/pharmacy-api/pkg/apperror"
	"github.com/rxledger/pharmacy-api/pkg/utils"
)

// AuthService handles authentication and pharmacy onboarding
type AuthService struct {
	userRepo     repository.UserRepository
	pharmacyRepo repository.PharmacyRepository
	jwtManager   *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	pharmacyRepo repository.PharmacyRepository,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		pharmacyRepo: pharmacyRepo,
		jwtManager:   jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// Login authenticates a user and returns tokens. Users of a pharmacy that
// has not been approved yet cannot log in; super admins have no pharmacy
// and are exempt.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	if user.PharmacyID != nil {
		pharmacy, err := s.pharmacyRepo.GetByID(ctx, *user.PharmacyID)
		if err != nil {
			return nil, err
		}
		if pharmacy == nil || !pharmacy.IsApproved() {
			return nil, apperror.ErrPharmacyNotActive
		}
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role, user.PharmacyID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RegisterPharmacyInput represents the public pharmacy registration input
type RegisterPharmacyInput struct {
	PharmacyName  string
	Address       string
	LicenseNumber string
	ContactNumber string
	GSTNumber     string
	OwnerName     string
	Email         string
	Password      string
}

// RegisterPharmacy creates a pharmacy and its admin user. Both IDs are
// generated up front and cross-linked before either row is written, so the
// pair is inserted in one transaction with no corrective update. The
// pharmacy starts Pending and cannot transact until a super admin
// approves it.
func (s *AuthService) RegisterPharmacy(ctx context.Context, input *RegisterPharmacyInput) (*entity.Pharmacy, error) {
	if input.LicenseNumber == "" {
		return nil, apperror.NewEmptyInputError("License number is required")
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	existingPharmacy, err := s.pharmacyRepo.GetByLicense(ctx, input.LicenseNumber)
	if err != nil {
		return nil, err
	}
	if existingPharmacy != nil {
		return nil, apperror.NewConflictError("License number already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	pharmacyID := uuid.New()
	ownerID := uuid.New()

	owner := &entity.User{
		ID:         ownerID,
		Name:       input.OwnerName,
		Email:      input.Email,
		Password:   hashedPassword,
		Role:       enum.RolePharmacyAdmin,
		PharmacyID: &pharmacyID,
	}
	pharmacy := &entity.Pharmacy{
		ID:            pharmacyID,
		Name:          input.PharmacyName,
		Address:       input.Address,
		LicenseNumber: input.LicenseNumber,
		ContactNumber: input.ContactNumber,
		GSTNumber:     input.GSTNumber,
		OwnerID:       ownerID,
		Status:        enum.PharmacyStatusPending,
	}

	if err := s.pharmacyRepo.CreateWithOwner(ctx, pharmacy, owner); err != nil {
		return nil, err
	}
	return pharmacy, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}

	return s.issueTokens(user)
}

// GetProfile returns the current user with their pharmacy
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, *entity.Pharmacy, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apperror.ErrNotFound
	}

	var pharmacy *entity.Pharmacy
	if user.PharmacyID != nil {
		pharmacy, err = s.pharmacyRepo.GetByID(ctx, *user.PharmacyID)
		if err != nil {
			return nil, nil, err
		}
	}
	return user, pharmacy, nil
}
