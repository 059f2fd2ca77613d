package aggregate

import (
	"vacancy-analytics/internal/ingest"
	"vacancy-analytics/internal/models"
)

// Options tunes an aggregation pass.
type Options struct {
	// TotalOverrides maps a tower slug to an externally supplied total unit
	// count. The override replaces the observed count on the Tower, but
	// fleet occupancy always uses the units actually seen.
	TotalOverrides map[string]int
}

// towerAcc accumulates one tower during a pass. The known-rent count is
// tracked separately from the unit count so the running average is never
// skewed by units with unknown rent.
type towerAcc struct {
	tower     models.Tower
	knownRent int
}

// BuildTowers groups normalized unit records by tower slug and accumulates
// per-tower totals and a running average rent. Single pass, stable grouping:
// towers come out in first-appearance order, and when two rows normalize to
// the same slug with different display names the first-seen name wins.
// An empty input yields an empty (non-nil) slice.
func BuildTowers(records []ingest.Record, opts Options) []models.Tower {
	accs := make(map[string]*towerAcc)
	var order []string

	for _, rec := range records {
		acc, ok := accs[rec.TowerSlug]
		if !ok {
			acc = &towerAcc{tower: models.Tower{
				Name: rec.TowerName,
				Slug: rec.TowerSlug,
				Area: rec.TowerArea,
			}}
			accs[rec.TowerSlug] = acc
			order = append(order, rec.TowerSlug)
		}

		acc.tower.Units = append(acc.tower.Units, rec.Unit)
		if rec.Unit.IsVacant() {
			acc.tower.VacantUnits++
		}
		if rec.Unit.RentPrice != nil {
			acc.knownRent++
			n := float64(acc.knownRent)
			acc.tower.AverageRent = (acc.tower.AverageRent*(n-1) + *rec.Unit.RentPrice) / n
		}
	}

	towers := make([]models.Tower, 0, len(order))
	for _, slug := range order {
		t := accs[slug].tower
		t.TotalUnits = len(t.Units)
		if override, ok := opts.TotalOverrides[slug]; ok {
			t.TotalUnits = override
		}
		towers = append(towers, t)
	}

	return towers
}

// TowerBySlug finds one tower in an aggregated pass. The second return value
// is false when the slug is unknown; callers decide whether that is 404.
func TowerBySlug(towers []models.Tower, slug string) (models.Tower, bool) {
	for _, t := range towers {
		if t.Slug == slug {
			return t, true
		}
	}
	return models.Tower{}, false
}
