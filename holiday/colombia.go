package holiday

import (
	"fmt"
	"sync"
	"time"
)

// =============================================================================
// COLOMBIA NATIONAL CALENDAR
// =============================================================================
// Colombian holidays fall in three groups:
//   1. Fixed dates observed where they fall (Jan 1, May 1, Jul 20, ...)
//   2. Ley Emiliani dates moved to the following Monday when they do not
//      already fall on one (Epiphany, Saint Joseph, ...)
//   3. Easter-relative dates (Holy Thursday, Good Friday, Ascension,
//      Corpus Christi, Sacred Heart); the last three are already
//      expressed here as their Monday-observed offsets.

// Colombia computes the national holiday table for a bounded year range.
// Tables are built lazily per year and cached; safe for concurrent use.
type Colombia struct {
	minYear int
	maxYear int

	mu    sync.Mutex
	cache map[int]map[string]string // year -> "MM-DD" -> name
}

// NewColombia creates a calendar answering for years [minYear, maxYear].
func NewColombia(minYear, maxYear int) *Colombia {
	return &Colombia{
		minYear: minYear,
		maxYear: maxYear,
		cache:   make(map[int]map[string]string),
	}
}

// Holiday is one named national holiday date.
type Holiday struct {
	Date time.Time
	Name string
}

func (c *Colombia) IsHoliday(date time.Time) (bool, error) {
	table, err := c.yearTable(date.Year())
	if err != nil {
		return false, err
	}
	_, ok := table[date.Format("01-02")]
	return ok, nil
}

// Holidays returns the full table for one year, sorted by date.
func (c *Colombia) Holidays(year int) ([]Holiday, error) {
	table, err := c.yearTable(year)
	if err != nil {
		return nil, err
	}

	var out []Holiday
	for key, name := range table {
		d, err := time.ParseInLocation("2006-01-02", fmt.Sprintf("%04d-%s", year, key), time.UTC)
		if err != nil {
			continue
		}
		out = append(out, Holiday{Date: d, Name: name})
	}
	sortHolidays(out)
	return out, nil
}

func sortHolidays(hs []Holiday) {
	for i := 1; i < len(hs); i++ {
		for j := i; j > 0 && hs[j].Date.Before(hs[j-1].Date); j-- {
			hs[j], hs[j-1] = hs[j-1], hs[j]
		}
	}
}

func (c *Colombia) yearTable(year int) (map[string]string, error) {
	if year < c.minYear || year > c.maxYear {
		return nil, &YearOutOfRangeError{Year: year, MinYear: c.minYear, MaxYear: c.maxYear}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if table, ok := c.cache[year]; ok {
		return table, nil
	}

	table := buildColombiaTable(year)
	c.cache[year] = table
	return table, nil
}

func buildColombiaTable(year int) map[string]string {
	table := make(map[string]string)

	add := func(d time.Time, name string) { table[d.Format("01-02")] = name }

	date := func(month time.Month, day int) time.Time {
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}

	// Fixed dates
	add(date(time.January, 1), "Año Nuevo")
	add(date(time.May, 1), "Día del Trabajo")
	add(date(time.July, 20), "Día de la Independencia")
	add(date(time.August, 7), "Batalla de Boyacá")
	add(date(time.December, 8), "Inmaculada Concepción")
	add(date(time.December, 25), "Navidad")

	// Ley Emiliani: observed the following Monday unless already a Monday
	add(nextMonday(date(time.January, 6)), "Día de los Reyes Magos")
	add(nextMonday(date(time.March, 19)), "Día de San José")
	add(nextMonday(date(time.June, 29)), "San Pedro y San Pablo")
	add(nextMonday(date(time.August, 15)), "Asunción de la Virgen")
	add(nextMonday(date(time.October, 12)), "Día de la Raza")
	add(nextMonday(date(time.November, 1)), "Todos los Santos")
	add(nextMonday(date(time.November, 11)), "Independencia de Cartagena")

	// Easter-relative
	easter := easterSunday(year)
	add(easter.AddDate(0, 0, -3), "Jueves Santo")
	add(easter.AddDate(0, 0, -2), "Viernes Santo")
	add(easter.AddDate(0, 0, 43), "Ascensión del Señor")
	add(easter.AddDate(0, 0, 64), "Corpus Christi")
	add(easter.AddDate(0, 0, 71), "Sagrado Corazón")

	return table
}

func nextMonday(d time.Time) time.Time {
	if d.Weekday() == time.Monday {
		return d
	}
	shift := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, shift)
}

// easterSunday computes Gregorian Easter via the anonymous algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
