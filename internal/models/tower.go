package models

// Tower is one building/development, the aggregation unit of the system.
// Derived fields are recomputed on every aggregation pass and never persisted
// independently of their source units.
type Tower struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Area string `json:"area"`

	// TotalUnits is len(Units) unless an external override was supplied
	// for this tower at aggregation time.
	TotalUnits  int     `json:"total_units"`
	VacantUnits int     `json:"vacant_units"`
	AverageRent float64 `json:"average_rent"`

	// Units in ingestion order.
	Units []UnitRecord `json:"units"`
}

// ObservedUnits is the actual number of units seen for the tower, ignoring
// any total-units override. Fleet occupancy is computed from this.
func (t *Tower) ObservedUnits() int {
	return len(t.Units)
}

// OccupiedUnits counts units not in a vacant/becoming-vacant state.
func (t *Tower) OccupiedUnits() int {
	return len(t.Units) - t.VacantUnits
}

// GlobalStats are fleet-wide metrics reduced from all aggregated towers.
type GlobalStats struct {
	TotalVacantUnits int `json:"total_vacant_units"`
	// AverageRent is the rounded mean of per-tower average rents, not a
	// unit-weighted mean. Towers with no known-rent units contribute 0.
	AverageRent   int     `json:"average_rent"`
	TotalRentLoss float64 `json:"total_rent_loss"`
	TotalTowers   int     `json:"total_towers"`
	OccupancyRate int     `json:"occupancy_rate"`
}
