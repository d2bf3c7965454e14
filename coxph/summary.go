package coxph

import (
	"bytes"
	"fmt"
	"strings"
)

// Summary renders a fixed width summary table for the fitted model.
func (r *Results) Summary() string {

	m := r.model
	var nevent int
	for _, s := range m.data[m.statuspos] {
		nevent += int(s)
	}

	lcb, ucb := r.ConfInt()

	s := &summaryTable{
		title: "Proportional hazards regression analysis",
		top: []string{
			fmt.Sprintf("  Sample size: %10d", m.NumObs()),
			fmt.Sprintf("  Events:      %10d", nevent),
			fmt.Sprintf("  Concordance: %10.3f", r.Concordance()),
			"  Ties:           Breslow",
			fmt.Sprintf("  Log-lik:     %10.2f", r.LogLike()),
			fmt.Sprintf("  LR test:     %10.2f (p=%.4f)", r.LRStat(), r.LRPValue()),
		},
		colNames: []string{"Variable   ", "Coefficient", "SE", "HR", "LCB", "UCB", "Z-score", "P-value"},
		cols: []interface{}{
			r.Names(), r.Params(), r.StdErr(), r.HazardRatios(),
			lcb, ucb, r.ZScores(), r.PValues(),
		},
	}

	if m.skipEarlyCensor > 0 {
		s.msg = append(s.msg, fmt.Sprintf("%d observations dropped for being censored before the first event",
			m.skipEarlyCensor))
	}

	return s.String()
}

// summaryTable formats aligned columns of model output.
type summaryTable struct {
	title    string
	top      []string
	colNames []string
	cols     []interface{}
	msg      []string

	tw int
}

func (s *summaryTable) formatCol(col interface{}, name string) []string {

	switch v := col.(type) {
	case []string:
		w := len(name)
		for _, x := range v {
			if len(x) > w {
				w = len(x)
			}
		}
		var z []string
		for _, x := range v {
			z = append(z, fmt.Sprintf(fmt.Sprintf("%%-%ds", w), x))
		}
		return z
	case []float64:
		var z []string
		for _, x := range v {
			z = append(z, fmt.Sprintf("%10.4f", x))
		}
		return z
	default:
		panic(fmt.Sprintf("coxph: cannot format column of type %T", col))
	}
}

func (s *summaryTable) line(c string) string {
	return strings.Repeat(c, s.tw) + "\n"
}

func (s *summaryTable) String() string {

	var tab [][]string
	var wx []int
	for j, c := range s.cols {
		u := s.formatCol(c, s.colNames[j])
		tab = append(tab, u)
		w := len(s.colNames[j])
		if len(u) > 0 && len(u[0]) > w {
			w = len(u[0])
		}
		wx = append(wx, w)
	}

	s.tw = 0
	for _, w := range wx {
		s.tw += w
	}
	if s.tw < len(s.title) {
		s.tw = len(s.title)
	}

	var buf bytes.Buffer

	k := (s.tw - len(s.title)) / 2
	if k < 0 {
		k = 0
	}
	buf.WriteString(strings.Repeat(" ", k) + s.title + "\n")
	buf.WriteString(s.line("="))

	for _, t := range s.top {
		buf.WriteString(t + "\n")
	}
	buf.WriteString(s.line("-"))

	for j, c := range s.colNames {
		buf.WriteString(fmt.Sprintf(fmt.Sprintf("%%%ds", wx[j]), c))
	}
	buf.WriteString("\n")
	buf.WriteString(s.line("-"))

	for i := 0; i < len(tab[0]); i++ {
		for j := range tab {
			buf.WriteString(fmt.Sprintf(fmt.Sprintf("%%%ds", wx[j]), tab[j][i]))
		}
		buf.WriteString("\n")
	}
	buf.WriteString(s.line("-"))

	for _, msg := range s.msg {
		buf.WriteString(msg + "\n")
	}

	return buf.String()
}
