package catalog

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/aretw0/runways/pkg/core"
)

var (
	icaoPattern        = regexp.MustCompile(`^[A-Z0-9]{4}$`)
	iataPattern        = regexp.MustCompile(`^[A-Z0-9]{3}$`)
	designationPattern = regexp.MustCompile(`^(\d{2})([LCR]?)/(\d{2})([LCR]?)$`)
)

var reciprocalSuffix = map[string]string{"": "", "L": "R", "R": "L", "C": "C"}

// ValidateAirfield checks an airfield and each of its runways.
func ValidateAirfield(a core.Airfield) error {
	if a.ID == "" {
		return fmt.Errorf("%w: airfield without id", core.ErrInvalidCatalog)
	}
	if !icaoPattern.MatchString(a.ICAOCode) {
		return fmt.Errorf("%w: %s: bad ICAO code %q", core.ErrInvalidCatalog, a.ID, a.ICAOCode)
	}
	if a.ID != a.ICAOCode {
		return fmt.Errorf("%w: %s: id must equal ICAO code %s", core.ErrInvalidCatalog, a.ID, a.ICAOCode)
	}
	if a.IATACode != "" && !iataPattern.MatchString(a.IATACode) {
		return fmt.Errorf("%w: %s: bad IATA code %q", core.ErrInvalidCatalog, a.ID, a.IATACode)
	}
	if a.Name == "" {
		return fmt.Errorf("%w: %s: missing name", core.ErrInvalidCatalog, a.ID)
	}

	seen := make(map[string]bool, len(a.Runways))
	for _, rw := range a.Runways {
		if seen[rw.ID] {
			return fmt.Errorf("%w: %s: duplicate runway %s", core.ErrInvalidCatalog, a.ID, rw.ID)
		}
		seen[rw.ID] = true
		if err := ValidateRunway(rw); err != nil {
			return fmt.Errorf("%s: %w", a.ID, err)
		}
	}
	return nil
}

// ValidateRunway enforces the reciprocal heading rule, positive dimensions and
// a designation that agrees with the headings.
func ValidateRunway(rw core.Runway) error {
	if rw.ID == "" {
		return fmt.Errorf("%w: runway without id", core.ErrInvalidCatalog)
	}
	for _, h := range []int{rw.HeadingDegrees, rw.ReciprocalHeadingDegrees} {
		if h < 0 || h > 360 {
			return fmt.Errorf("%w: runway %s: heading %d out of range", core.ErrInvalidCatalog, rw.ID, h)
		}
	}
	if Reciprocal(rw.HeadingDegrees) != rw.ReciprocalHeadingDegrees%360 {
		return fmt.Errorf("%w: runway %s: reciprocal of %d is %d, not %d",
			core.ErrInvalidCatalog, rw.ID, rw.HeadingDegrees, Reciprocal(rw.HeadingDegrees), rw.ReciprocalHeadingDegrees)
	}
	if rw.LengthMeters <= 0 || rw.WidthMeters <= 0 {
		return fmt.Errorf("%w: runway %s: dimensions must be positive", core.ErrInvalidCatalog, rw.ID)
	}

	m := designationPattern.FindStringSubmatch(rw.Designation)
	if m == nil {
		return fmt.Errorf("%w: runway %s: malformed designation %q", core.ErrInvalidCatalog, rw.ID, rw.Designation)
	}
	if want := Designate(rw.HeadingDegrees, rw.ReciprocalHeadingDegrees, m[2]); want != rw.Designation {
		return fmt.Errorf("%w: runway %s: designation %q does not match headings (want %q)",
			core.ErrInvalidCatalog, rw.ID, rw.Designation, want)
	}
	return nil
}

// Reciprocal returns heading + 180 modulo 360.
func Reciprocal(heading int) int {
	return (heading + 180) % 360
}

// RunwayNumber rounds a heading to the nearest 10° and drops the last digit.
// North is 36, never 00.
func RunwayNumber(heading int) int {
	n := ((heading + 5) / 10) % 36
	if n == 0 {
		return 36
	}
	return n
}

// Designate builds a designation such as "09L/27R" from both headings and the
// parallel-runway suffix of the first end.
func Designate(heading, reciprocal int, suffix string) string {
	opposite, ok := reciprocalSuffix[suffix]
	if !ok {
		opposite = suffix
	}
	return pad(RunwayNumber(heading)) + suffix + "/" + pad(RunwayNumber(reciprocal)) + opposite
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
