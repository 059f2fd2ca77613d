package query

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"vacancy-analytics/internal/models"
)

// AreaAll is the sentinel that bypasses the area filter entirely.
const AreaAll = "all"

// DefaultLimit is the page size used when the caller supplies none.
const DefaultLimit = 12

// Filters is the filter specification for one query. All filters are
// conjunctive. Unit-level filters (UnitType, VacancyStatus, DaysVacant,
// price range) are existential over a tower's units: the tower passes when
// at least one unit satisfies all of them at once.
type Filters struct {
	Search        string
	Area          string
	UnitType      string
	VacancyStatus string
	// DaysVacant is a threshold string like "90+", meaning at least 90
	// days, applied only to vacant units.
	DaysVacant string
	// PriceMin/PriceMax bound known rents; zero means unset. Units with
	// unknown rent are not excluded by the price range.
	PriceMin float64
	PriceMax float64
}

// Page is a one-indexed page window.
type Page struct {
	Page  int
	Limit int
}

// Pagination describes the window actually returned. Total is always the
// post-filter, pre-pagination count.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Result is the single atomic answer handed to the presentation layer.
type Result struct {
	Towers     []models.Tower     `json:"towers"`
	Stats      models.GlobalStats `json:"global_stats"`
	Pagination Pagination         `json:"pagination"`
}

// Engine applies filters, a sort order, and a page window over an aggregated
// tower list. Purely a read transformation; the input slice is never mutated.
type Engine struct {
	collator *collate.Collator
}

// NewEngine creates a query engine with a locale-aware name collator.
func NewEngine() *Engine {
	return &Engine{collator: collate.New(language.English)}
}

// Query runs the full filter → sort → paginate chain. Stats are the
// fleet-wide metrics of the unfiltered collection and ride along so the
// caller gets one synchronous result.
func (e *Engine) Query(towers []models.Tower, stats models.GlobalStats, f Filters, sortBy string, p Page) Result {
	filtered := e.Filter(towers, f)
	sorted := e.Sort(filtered, sortBy)
	window, pagination := Paginate(sorted, p)

	return Result{
		Towers:     window,
		Stats:      stats,
		Pagination: pagination,
	}
}

// Filter returns the towers passing every active filter, in input order.
func (e *Engine) Filter(towers []models.Tower, f Filters) []models.Tower {
	out := make([]models.Tower, 0, len(towers))
	for _, t := range towers {
		if e.matches(&t, f) {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) matches(t *models.Tower, f Filters) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Name), q) &&
			!strings.Contains(strings.ToLower(t.Area), q) {
			return false
		}
	}

	if f.Area != "" && !strings.EqualFold(f.Area, AreaAll) {
		if !strings.EqualFold(t.Area, f.Area) {
			return false
		}
	}

	if !f.hasUnitFilters() {
		return true
	}

	// Existential: one unit satisfying all unit-level filters is enough.
	for i := range t.Units {
		if unitMatches(&t.Units[i], f) {
			return true
		}
	}
	return false
}

func (f Filters) hasUnitFilters() bool {
	return f.UnitType != "" || f.VacancyStatus != "" || f.DaysVacant != "" ||
		f.PriceMin > 0 || f.PriceMax > 0
}

func unitMatches(u *models.UnitRecord, f Filters) bool {
	if f.UnitType != "" &&
		!strings.Contains(strings.ToLower(u.UnitType), strings.ToLower(f.UnitType)) {
		return false
	}

	if u.RentPrice != nil {
		if f.PriceMin > 0 && *u.RentPrice < f.PriceMin {
			return false
		}
		if f.PriceMax > 0 && *u.RentPrice > f.PriceMax {
			return false
		}
	}

	switch f.VacancyStatus {
	case "":
	case "vacant":
		if u.Status != models.StatusVacant {
			return false
		}
	case "occupied":
		if u.Status != models.StatusOccupied {
			return false
		}
	case "long-vacant":
		if !u.IsLongVacant() {
			return false
		}
	}

	// Threshold constrains vacant units only; others pass through.
	if f.DaysVacant != "" && u.Status == models.StatusVacant && u.DaysVacant != nil {
		minDays, err := strconv.Atoi(strings.TrimSuffix(f.DaysVacant, "+"))
		if err == nil && *u.DaysVacant < minDays {
			return false
		}
	}

	return true
}

// Sort orders towers by the given key. The sort is stable: ties keep the
// original collection order. An unknown key leaves the order untouched.
func (e *Engine) Sort(towers []models.Tower, sortBy string) []models.Tower {
	out := make([]models.Tower, len(towers))
	copy(out, towers)

	var less func(a, b *models.Tower) bool
	switch sortBy {
	case "name":
		less = func(a, b *models.Tower) bool {
			return e.collator.CompareString(a.Name, b.Name) < 0
		}
	case "name-desc":
		less = func(a, b *models.Tower) bool {
			return e.collator.CompareString(a.Name, b.Name) > 0
		}
	case "area":
		less = func(a, b *models.Tower) bool {
			return e.collator.CompareString(a.Area, b.Area) < 0
		}
	case "vacancy-high", "vacant":
		less = func(a, b *models.Tower) bool { return a.VacantUnits > b.VacantUnits }
	case "vacancy-low":
		less = func(a, b *models.Tower) bool { return a.VacantUnits < b.VacantUnits }
	case "rent":
		less = func(a, b *models.Tower) bool { return a.AverageRent > b.AverageRent }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

// Paginate slices one page window out of the (already filtered and sorted)
// collection. Pages are one-indexed; a page past the end returns an empty
// slice, not an error.
func Paginate(towers []models.Tower, p Page) ([]models.Tower, Pagination) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}

	total := len(towers)
	pagination := Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + p.Limit - 1) / p.Limit,
	}

	start := (p.Page - 1) * p.Limit
	if start >= total {
		return []models.Tower{}, pagination
	}
	end := start + p.Limit
	if end > total {
		end = total
	}

	return towers[start:end], pagination
}
