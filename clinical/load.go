package clinical

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// The NCCTG lung cancer cohort: 228 records, ten columns, missing
// values written as NA.
//
//go:embed lung.csv
var lungCSV []byte

// header is the required column order of the input file.
var header = []string{
	"inst", "time", "status", "age", "sex",
	"ph.ecog", "ph.karno", "pat.karno", "meal.cal", "wt.loss",
}

// LoadEmbedded returns the cohort shipped with the module.
func LoadEmbedded() (Cohort, error) {
	return Load(bytes.NewReader(lungCSV))
}

// LoadFile reads a cohort from a CSV file with the same layout as the
// embedded dataset.
func LoadFile(path string) (Cohort, error) {
	fid, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fid.Close()
	c, err := Load(fid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load parses a cohort from CSV.  The header must match the ten known
// column names.  Empty fields and the token NA become NaN.  Rows with a
// negative time or an unknown status code are rejected.
func Load(r io.Reader) (Cohort, error) {

	rd := csv.NewReader(r)

	names, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(names) != len(header) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(header), len(names))
	}
	for j, na := range header {
		if names[j] != na {
			return nil, fmt.Errorf("column %d: expected %q, got %q", j+1, na, names[j])
		}
	}

	var cohort Cohort
	for line := 2; ; line++ {
		row, err := rd.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		v := make([]float64, len(row))
		for j, s := range row {
			v[j], err = parseField(s)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %s: %w", line, header[j], err)
			}
		}

		rec := Record{
			Inst: v[0], Time: v[1], Status: v[2], Age: v[3], Sex: v[4],
			ECOG: v[5], PhKarno: v[6], PatKarno: v[7], MealCal: v[8], WtLoss: v[9],
		}

		if err := validate(&rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		cohort = append(cohort, rec)
	}

	return cohort, nil
}

func parseField(s string) (float64, error) {
	if s == "" || s == "NA" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

func validate(r *Record) error {
	switch {
	case math.IsNaN(r.Time) || r.Time < 0:
		return fmt.Errorf("time %v is not a non-negative number", r.Time)
	case r.Status != StatusCensored && r.Status != StatusDead:
		return fmt.Errorf("status %v is not %d or %d", r.Status, StatusCensored, StatusDead)
	case !math.IsNaN(r.ECOG) && (r.ECOG < 0 || r.ECOG > 4):
		return fmt.Errorf("ph.ecog %v is outside 0-4", r.ECOG)
	}
	return nil
}
