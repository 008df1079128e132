package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rxledger/pharmacy-api/internal/application/service"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/dto/request"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/dto/response"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"user":          result.User,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

// Register handles public pharmacy registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterPharmacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	pharmacy, err := h.authService.RegisterPharmacy(c.Request.Context(), &service.RegisterPharmacyInput{
		PharmacyName:  req.PharmacyName,
		Address:       req.Address,
		LicenseNumber: req.LicenseNumber,
		ContactNumber: req.ContactNumber,
		GSTNumber:     req.GSTNumber,
		OwnerName:     req.OwnerName,
		Email:         req.Email,
		Password:      req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Pharmacy registered, awaiting approval", pharmacy)
}

// Refresh handles token refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed", gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}

// Profile handles retrieving the current user's profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	user, pharmacy, err := h.authService.GetProfile(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", gin.H{
		"user":     user,
		"pharmacy": pharmacy,
	})
}
