package clinical

import (
	"math"

	"github.com/rs/zerolog"
)

// CleanStats records what the cleaning pass did, for the report.
type CleanStats struct {

	// Rows before and after cleaning
	In, Out int

	// Rows dropped for a missing performance score
	Dropped int

	// Imputed value counts per continuous column
	ImputedMealCal, ImputedWtLoss int

	// The imputation means
	MeanMealCal, MeanWtLoss float64
}

// Clean removes records with a missing performance score (ph.ecog,
// ph.karno, or pat.karno) and mean-imputes missing meal.cal and wt.loss
// values.  The imputation means are computed over the original cohort,
// before the row filter.  The input cohort is not modified.
func Clean(c Cohort, lg zerolog.Logger) (Cohort, CleanStats) {

	st := CleanStats{
		In:          len(c),
		MeanMealCal: nanmean(c.Column("meal.cal")),
		MeanWtLoss:  nanmean(c.Column("wt.loss")),
	}

	out := make(Cohort, 0, len(c))
	for i := range c {
		r := c[i]

		if math.IsNaN(r.ECOG) || math.IsNaN(r.PhKarno) || math.IsNaN(r.PatKarno) {
			st.Dropped++
			continue
		}

		if math.IsNaN(r.MealCal) {
			r.MealCal = st.MeanMealCal
			st.ImputedMealCal++
		}
		if math.IsNaN(r.WtLoss) {
			r.WtLoss = st.MeanWtLoss
			st.ImputedWtLoss++
		}

		out = append(out, r)
	}
	st.Out = len(out)

	lg.Info().
		Int("in", st.In).
		Int("dropped", st.Dropped).
		Int("imputed_meal_cal", st.ImputedMealCal).
		Int("imputed_wt_loss", st.ImputedWtLoss).
		Float64("mean_meal_cal", st.MeanMealCal).
		Float64("mean_wt_loss", st.MeanWtLoss).
		Msg("cleaned cohort")

	return out, st
}
