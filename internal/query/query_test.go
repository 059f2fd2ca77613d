package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacancy-analytics/internal/models"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func unit(number string, status models.UnitStatus, opts ...func(*models.UnitRecord)) models.UnitRecord {
	u := models.UnitRecord{
		UnitNumber: number,
		UnitType:   models.DefaultUnitType,
		Status:     status,
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

func withRent(v float64) func(*models.UnitRecord) {
	return func(u *models.UnitRecord) { u.RentPrice = fptr(v) }
}

func withDays(d int) func(*models.UnitRecord) {
	return func(u *models.UnitRecord) { u.DaysVacant = iptr(d) }
}

func withType(t string) func(*models.UnitRecord) {
	return func(u *models.UnitRecord) { u.UnitType = t }
}

func tower(name, area string, units ...models.UnitRecord) models.Tower {
	t := models.Tower{Name: name, Slug: name, Area: area, Units: units, TotalUnits: len(units)}
	for _, u := range units {
		if u.IsVacant() {
			t.VacantUnits++
		}
	}
	return t
}

func TestSearchFilterMatchesNameOrArea(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{
		tower("Marina Heights", "Dubai Marina"),
		tower("Burj Vista", "Downtown Dubai"),
	}

	got := e.Filter(towers, Filters{Search: "marina"})
	require.Len(t, got, 1)
	assert.Equal(t, "Marina Heights", got[0].Name)

	got = e.Filter(towers, Filters{Search: "DOWNTOWN"})
	require.Len(t, got, 1)
	assert.Equal(t, "Burj Vista", got[0].Name)

	got = e.Filter(towers, Filters{Search: "nothing"})
	assert.Empty(t, got)
}

func TestAreaFilterExactWithSentinel(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{
		tower("A", "Dubai Marina"),
		tower("B", "Dubai Marina South"),
	}

	// Exact case-insensitive match, not substring.
	got := e.Filter(towers, Filters{Area: "dubai marina"})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)

	// Sentinel bypasses the filter entirely.
	got = e.Filter(towers, Filters{Area: AreaAll})
	assert.Len(t, got, 2)
}

func TestUnitFiltersAreExistential(t *testing.T) {
	e := NewEngine()

	// 10 units, exactly one satisfies both unit-level filters at once.
	units := make([]models.UnitRecord, 0, 10)
	for i := 0; i < 9; i++ {
		units = append(units, unit(fmt.Sprintf("10%d", i), models.StatusOccupied, withType("Studio")))
	}
	units = append(units, unit("110", models.StatusVacant, withType("2BR"), withRent(95000)))

	towers := []models.Tower{tower("Alpha", "JBR", units...)}

	got := e.Filter(towers, Filters{UnitType: "2br", VacancyStatus: "vacant"})
	require.Len(t, got, 1, "one matching unit out of ten must keep the tower in")

	// No single unit is both a Studio and vacant.
	got = e.Filter(towers, Filters{UnitType: "studio", VacancyStatus: "vacant"})
	assert.Empty(t, got, "filters must hold simultaneously on one unit")
}

func TestLongVacantFilter(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{
		tower("Alpha", "JBR",
			unit("101", models.StatusVacant, withDays(200)),
			unit("102", models.StatusVacant, withDays(10)),
		),
		tower("Beta", "JBR",
			unit("201", models.StatusVacant, withDays(150)), // not strictly greater
		),
	}

	got := e.Filter(towers, Filters{VacancyStatus: "long-vacant"})
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Name)

	// The tower matched existentially; unit-level detail still tells the
	// two apart.
	assert.True(t, got[0].Units[0].IsLongVacant())
	assert.False(t, got[0].Units[1].IsLongVacant())
}

func TestVacantFilterExcludesBecomingVacant(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{
		tower("Alpha", "JBR", unit("101", models.StatusBecomingVacant)),
		tower("Beta", "JBR", unit("201", models.StatusVacant)),
	}

	got := e.Filter(towers, Filters{VacancyStatus: "vacant"})
	require.Len(t, got, 1)
	assert.Equal(t, "Beta", got[0].Name)
}

func TestDaysVacantThreshold(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{
		tower("Alpha", "JBR", unit("101", models.StatusVacant, withDays(45))),
		tower("Beta", "JBR", unit("201", models.StatusVacant, withDays(120))),
	}

	got := e.Filter(towers, Filters{DaysVacant: "90+"})
	require.Len(t, got, 1)
	assert.Equal(t, "Beta", got[0].Name)
}

func TestPriceRangeIgnoresUnknownRent(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{
		tower("Alpha", "JBR", unit("101", models.StatusVacant, withRent(40000))),
		tower("Beta", "JBR", unit("201", models.StatusVacant)), // unknown rent
		tower("Gamma", "JBR", unit("301", models.StatusVacant, withRent(200000))),
	}

	got := e.Filter(towers, Filters{PriceMin: 30000, PriceMax: 100000})
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Equal(t, "Beta", got[1].Name, "unknown rent is not excluded by a price range")
}

func TestFiltersAreConjunctive(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{
		tower("Marina Heights", "Dubai Marina", unit("101", models.StatusVacant)),
		tower("Marina View", "JBR", unit("201", models.StatusVacant)),
	}

	got := e.Filter(towers, Filters{Search: "marina", Area: "JBR"})
	require.Len(t, got, 1)
	assert.Equal(t, "Marina View", got[0].Name)
}

func TestSortByNameIsLocaleAware(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{
		tower("beta court", "X"),
		tower("Alpha Tower", "X"),
	}

	got := e.Sort(towers, "name")
	require.Len(t, got, 2)
	// Byte order would put "Alpha Tower" after "beta court" only under a
	// case-sensitive compare; the collator orders by letter.
	assert.Equal(t, "Alpha Tower", got[0].Name)

	got = e.Sort(towers, "name-desc")
	assert.Equal(t, "beta court", got[0].Name)
}

func TestSortByVacancyIsStable(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{
		tower("A", "X", unit("1", models.StatusVacant)),
		tower("B", "X", unit("1", models.StatusVacant)),
		tower("C", "X", unit("1", models.StatusVacant), unit("2", models.StatusVacant)),
	}

	got := e.Sort(towers, "vacancy-high")
	require.Len(t, got, 3)
	assert.Equal(t, "C", got[0].Name)
	// Ties keep original collection order.
	assert.Equal(t, "A", got[1].Name)
	assert.Equal(t, "B", got[2].Name)

	got = e.Sort(towers, "vacancy-low")
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, "C", got[2].Name)
}

func TestSortByHighestRent(t *testing.T) {
	e := NewEngine()
	a := tower("A", "X")
	a.AverageRent = 50000
	b := tower("B", "X")
	b.AverageRent = 90000

	got := e.Sort([]models.Tower{a, b}, "rent")
	assert.Equal(t, "B", got[0].Name)
}

func TestSortUnknownKeyKeepsOrder(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{tower("B", "X"), tower("A", "X")}
	got := e.Sort(towers, "bogus")
	assert.Equal(t, "B", got[0].Name)
	assert.Equal(t, "A", got[1].Name)
}

func TestSortDoesNotMutateInput(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{tower("B", "X"), tower("A", "X")}
	_ = e.Sort(towers, "name")
	assert.Equal(t, "B", towers[0].Name)
}

func TestPaginateWindow(t *testing.T) {
	towers := make([]models.Tower, 30)
	for i := range towers {
		towers[i] = tower(fmt.Sprintf("T%02d", i), "X")
	}

	window, pagination := Paginate(towers, Page{Page: 3, Limit: 12})
	require.Len(t, window, 6)
	assert.Equal(t, "T24", window[0].Name)
	assert.Equal(t, "T29", window[5].Name)
	assert.Equal(t, 30, pagination.Total)
	assert.Equal(t, 3, pagination.TotalPages)
}

func TestPaginatePastEndReturnsEmpty(t *testing.T) {
	towers := []models.Tower{tower("A", "X")}

	window, pagination := Paginate(towers, Page{Page: 5, Limit: 12})
	assert.Empty(t, window)
	assert.Equal(t, 1, pagination.Total)
	assert.Equal(t, 5, pagination.Page)
}

func TestPaginateDefaults(t *testing.T) {
	towers := []models.Tower{tower("A", "X")}

	window, pagination := Paginate(towers, Page{})
	assert.Len(t, window, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, DefaultLimit, pagination.Limit)
}

func TestQueryReturnsAtomicResult(t *testing.T) {
	e := NewEngine()
	towers := []models.Tower{
		tower("Marina Heights", "Dubai Marina", unit("101", models.StatusVacant)),
		tower("Burj Vista", "Downtown Dubai", unit("201", models.StatusOccupied)),
	}
	stats := models.GlobalStats{TotalTowers: 2, TotalVacantUnits: 1}

	result := e.Query(towers, stats, Filters{Search: "marina"}, "name", Page{Page: 1, Limit: 12})

	require.Len(t, result.Towers, 1)
	assert.Equal(t, 1, result.Pagination.Total, "total reflects the post-filter count")
	// Stats ride along unfiltered.
	assert.Equal(t, 2, result.Stats.TotalTowers)
}
