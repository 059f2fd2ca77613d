package aggregate

import (
	"math"

	"vacancy-analytics/internal/models"
)

// ComputeGlobalStats reduces a full aggregation pass into fleet-wide metrics.
// With zero towers every metric is 0, never NaN.
//
// AverageRent is deliberately the mean of per-tower average rents rather than
// a unit-weighted mean across all units; towers with no known-rent units pull
// it toward zero. See UnitWeightedAverageRent for the other number.
func ComputeGlobalStats(towers []models.Tower) models.GlobalStats {
	stats := models.GlobalStats{TotalTowers: len(towers)}
	if len(towers) == 0 {
		return stats
	}

	var rentSum float64
	var occupied, observed int

	for _, t := range towers {
		stats.TotalVacantUnits += t.VacantUnits
		rentSum += t.AverageRent
		occupied += t.OccupiedUnits()
		observed += t.ObservedUnits()

		for _, u := range t.Units {
			if !u.IsVacant() {
				continue
			}
			// Known rent when available, the owning tower's average
			// as the stand-in estimate otherwise.
			if u.RentPrice != nil {
				stats.TotalRentLoss += *u.RentPrice
			} else {
				stats.TotalRentLoss += t.AverageRent
			}
		}
	}

	stats.AverageRent = int(math.Round(rentSum / float64(len(towers))))
	if observed > 0 {
		stats.OccupancyRate = int(math.Round(100 * float64(occupied) / float64(observed)))
	}

	return stats
}

// UnitWeightedAverageRent is the mean rent across every unit with a known
// rent, regardless of tower. Exposed as a separately named metric; it is not
// the AverageRent the site publishes.
func UnitWeightedAverageRent(towers []models.Tower) int {
	var sum float64
	var n int
	for _, t := range towers {
		for _, u := range t.Units {
			if u.RentPrice != nil {
				sum += *u.RentPrice
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(sum / float64(n)))
}
