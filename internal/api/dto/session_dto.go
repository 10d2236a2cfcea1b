package dto

import (
	"github.com/barberdesk/kiosk/internal/domain"
)

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	ShopID string `json:"shop_id"`
	PIN    string `json:"pin"`
}

// ShopResponse is the shop block of a session.
type ShopResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// SessionResponse is what the screen sees of a session. The token stays in
// the kiosk process.
type SessionResponse struct {
	StaffID  string           `json:"staff_id"`
	Name     string           `json:"name"`
	Role     domain.StaffRole `json:"role"`
	ShopID   string           `json:"shop_id"`
	Phone    string           `json:"phone,omitempty"`
	IsActive bool             `json:"is_active"`
	Shop     ShopResponse     `json:"shop"`
	Redirect string           `json:"redirect"`
}

// NewSessionResponse maps a session and its landing screen.
func NewSessionResponse(s *domain.StaffSession, redirect string) SessionResponse {
	return SessionResponse{
		StaffID:  s.StaffID,
		Name:     s.Name,
		Role:     s.Role,
		ShopID:   s.ShopID,
		Phone:    s.Phone,
		IsActive: s.IsActive,
		Shop: ShopResponse{
			ID:       s.Shop.ID,
			Name:     s.Shop.Name,
			Location: s.Shop.Location,
		},
		Redirect: redirect,
	}
}

// LogoutResponse tells the screen where to go after logout.
type LogoutResponse struct {
	LoggedOut bool   `json:"logged_out"`
	Redirect  string `json:"redirect"`
}
