package coxph

import "math"

// Concordance returns Harrell's concordance index: the fraction of
// comparable pairs of observations for which the risk score ordering
// agrees with the observed survival ordering.  A pair is comparable
// when the shorter observed time is an event; pairs with equal times
// are comparable only if exactly one is an event.  Tied scores count
// one half.  Returns NaN if no pair is comparable.
func Concordance(time, status, score []float64) float64 {

	if len(time) != len(status) || len(time) != len(score) {
		panic("coxph: concordance input lengths differ")
	}

	var numer, denom float64
	for i := range time {
		for j := i + 1; j < len(time); j++ {

			// Order the pair so that k is the earlier subject.
			k, l := i, j
			if time[l] < time[k] {
				k, l = l, k
			}

			if time[k] == time[l] {
				// One event, one censored at the same time:
				// the censored subject is known to survive
				// longer.
				if status[k] == status[l] {
					continue
				}
				if status[l] == 1 {
					k, l = l, k
				}
			} else if status[k] != 1 {
				continue
			}

			denom++
			switch {
			case score[k] > score[l]:
				numer++
			case score[k] == score[l]:
				numer += 0.5
			}
		}
	}

	if denom == 0 {
		return math.NaN()
	}
	return numer / denom
}
