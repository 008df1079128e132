package request

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterPharmacyRequest represents a public pharmacy registration request
type RegisterPharmacyRequest struct {
	PharmacyName  string `json:"pharmacy_name" binding:"required,min=2,max=255"`
	Address       string `json:"address" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
	ContactNumber string `json:"contact_number" binding:"required"`
	GSTNumber     string `json:"gst_number"`
	OwnerName     string `json:"owner_name" binding:"required,min=2,max=255"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
