package models

// UnitStatus is the occupancy state of a unit exactly as it appears in the
// source data. Known values are matched case-sensitively; anything else is
// kept verbatim for display and counts as non-vacant.
type UnitStatus string

const (
	StatusOccupied       UnitStatus = "Occupied"
	StatusVacant         UnitStatus = "Vacant"
	StatusBecomingVacant UnitStatus = "Becoming Vacant in 30 Days"
)

// LongVacantThresholdDays is the cutoff above which a vacant unit is shown
// as "Long Vacant". Display category only, never a stored state.
const LongVacantThresholdDays = 150

// DefaultUnitType is used when the source rows carry no unit type column.
const DefaultUnitType = "Apartment"

// UnitRecord is one leasable residential unit inside a tower. Units have no
// identity outside their tower; the slug ties them back to it.
type UnitRecord struct {
	UnitNumber string   `json:"unit_number"`
	UnitType   string   `json:"unit_type"`
	Status     UnitStatus `json:"status"`
	RentPrice  *float64 `json:"rent_price,omitempty"`
	DaysVacant *int     `json:"days_vacant,omitempty"`
	// ContractEndDate is carried as opaque text; the source mixes formats
	// and nothing computes on it.
	ContractEndDate string `json:"contract_end_date,omitempty"`
	Notes           string `json:"notes,omitempty"`
	TowerSlug       string `json:"tower_slug"`
}

// IsVacant reports whether the unit counts toward vacancy totals.
func (u *UnitRecord) IsVacant() bool {
	return u.Status == StatusVacant || u.Status == StatusBecomingVacant
}

// IsOccupied reports whether the unit has a known occupied status.
func (u *UnitRecord) IsOccupied() bool {
	return u.Status == StatusOccupied
}

// IsLongVacant reports whether the unit falls in the long-vacant display
// category: vacant with more than LongVacantThresholdDays days vacant.
func (u *UnitRecord) IsLongVacant() bool {
	return u.Status == StatusVacant && u.DaysVacant != nil && *u.DaysVacant > LongVacantThresholdDays
}
