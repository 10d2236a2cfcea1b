package domain

// StaffSession is the identity snapshot held by a kiosk after a PIN login.
// It is replaced wholesale on a new login and never edited in place.
type StaffSession struct {
	StaffID      string    `json:"id"`
	Name         string    `json:"name"`
	Role         StaffRole `json:"role"`
	ShopID       string    `json:"shop_id"`
	Phone        string    `json:"phone"`
	IsActive     bool      `json:"is_active"`
	Shop         Shop      `json:"shop"`
	SessionToken string    `json:"sessionToken"`
}

// Authenticated reports whether the session carries a token at all.
// Liveness is only known after the backend confirms it.
func (s *StaffSession) Authenticated() bool {
	return s != nil && s.SessionToken != ""
}

// Credentials is what every privileged call carries.
type Credentials struct {
	StaffID      string
	ShopID       string
	Role         StaffRole
	SessionToken string
}

// Credentials returns the privileged-call credentials for this session.
func (s *StaffSession) Credentials() Credentials {
	return Credentials{
		StaffID:      s.StaffID,
		ShopID:       s.ShopID,
		Role:         s.Role,
		SessionToken: s.SessionToken,
	}
}
