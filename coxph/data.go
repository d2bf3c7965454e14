// Package coxph fits Cox proportional hazards regression models for
// right censored survival data.
package coxph

// Dataset is a named collection of equal length data columns.
type Dataset struct {
	names []string
	data  [][]float64
}

// NewDataset creates a Dataset from the given columns.  The number of
// columns must match the number of names and all columns must have the
// same length; mismatches are programmer errors and panic.
func NewDataset(data [][]float64, names []string) Dataset {

	if len(data) != len(names) {
		panic("coxph: number of columns does not match number of names")
	}
	for _, col := range data {
		if len(col) != len(data[0]) {
			panic("coxph: data columns have unequal lengths")
		}
	}

	return Dataset{names: names, data: data}
}

// Names returns the column names.
func (d Dataset) Names() []string {
	return d.names
}

// Data returns the data columns, in the same order as Names.
func (d Dataset) Data() [][]float64 {
	return d.data
}

// NumObs returns the number of rows in the dataset.
func (d Dataset) NumObs() int {
	if len(d.data) == 0 {
		return 0
	}
	return len(d.data[0])
}
