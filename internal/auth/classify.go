package auth

import (
	"errors"
	"regexp"

	"github.com/barberdesk/kiosk/internal/backend"
	apperrors "github.com/barberdesk/kiosk/pkg/util"
)

// Kind is the client-side class of a failed call.
type Kind int

const (
	KindNone Kind = iota
	KindCredential
	KindSessionExpired
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCredential:
		return "credential"
	case KindSessionExpired:
		return "session_expired"
	default:
		return "transport"
	}
}

var expiryPhrasing = regexp.MustCompile(`(?i)` +
	`\b(session|token)\b.{0,40}\b(expired|invalid|revoked|not found|not valid)\b` +
	`|\b(expired|invalid|revoked)\b.{0,20}\b(session|token)\b` +
	`|\bjwt expired\b` +
	`|\blog\s?in again\b`)

// Classify sorts a backend failure into one of the kinds the screen reacts to.
// Only session expiry changes state; the others just produce a message.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case apperrors.CodeSessionExpired:
			return KindSessionExpired
		case apperrors.CodeInvalidCredentials:
			return KindCredential
		}
	}
	if expiryPhrasing.MatchString(backendText(err)) {
		return KindSessionExpired
	}
	return KindTransport
}

// backendText is the part of err worth matching. A backend error is judged
// by its message alone, never by the RPC name it carries.
func backendText(err error) string {
	var backendErr *backend.Error
	if errors.As(err, &backendErr) {
		if backendErr.Message != "" {
			return backendErr.Message
		}
		if backendErr.Err != nil {
			return backendErr.Err.Error()
		}
		return ""
	}
	return err.Error()
}

// UserMessage is the single notification shown for err. Backend text never
// passes through.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindCredential:
		return apperrors.MsgInvalidCredentials
	case KindSessionExpired:
		return apperrors.MsgSessionExpired
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) && domainErr.Code != apperrors.CodeInternal {
		return domainErr.Message
	}
	return apperrors.MsgTryAgain
}
