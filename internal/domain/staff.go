package domain

// StaffRole enumerates shop-floor roles.
type StaffRole string

const (
	StaffRoleBarber  StaffRole = "barber"
	StaffRoleCashier StaffRole = "cashier"
	StaffRoleCleaner StaffRole = "cleaner"
)

// Valid reports whether r is a known role.
func (r StaffRole) Valid() bool {
	switch r {
	case StaffRoleBarber, StaffRoleCashier, StaffRoleCleaner:
		return true
	}
	return false
}

// Shop is a physical business location. Staff and sessions belong to exactly one.
type Shop struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}
