package auth

import (
	"strings"

	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

const (
	MinPINLength = 4
	MaxPINLength = 6
)

// ValidatePIN accepts 4 to 6 ASCII digits.
func ValidatePIN(pin string) bool {
	if len(pin) < MinPINLength || len(pin) > MaxPINLength {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}

// ValidateLoginInput checks the login form before any backend call is made.
func ValidateLoginInput(shopID, pin string) error {
	details := map[string]any{}
	if strings.TrimSpace(shopID) == "" {
		details["shop_id"] = "required"
	}
	if !ValidatePIN(pin) {
		details["pin"] = "must be 4 to 6 digits"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("select a shop and enter a 4 to 6 digit PIN", details)
	}
	return nil
}
