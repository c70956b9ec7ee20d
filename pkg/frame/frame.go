package frame

import (
	"github.com/ajitpratap0/strata/pkg/errors"
)

// Frame is an ordered collection of equal-length named series.
// Column order is preserved from construction; lookups are by name.
type Frame struct {
	names   []string
	columns map[string]*Series
}

// New creates a frame from the given columns. All columns must have the
// same length and distinct names.
func New(cols ...*Series) (*Frame, error) {
	f := &Frame{
		columns: make(map[string]*Series, len(cols)),
	}
	for _, col := range cols {
		if err := f.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// AddColumn appends a column to the frame. The column length must match
// the existing columns.
func (f *Frame) AddColumn(s *Series) error {
	if _, exists := f.columns[s.Name()]; exists {
		return errors.Newf(errors.ErrorTypeValidation, "column %q already exists", s.Name())
	}
	if len(f.names) > 0 && s.Len() != f.NumRows() {
		return errors.Newf(errors.ErrorTypeValidation,
			"column %q has %d rows, frame has %d", s.Name(), s.Len(), f.NumRows())
	}

	f.names = append(f.names, s.Name())
	f.columns[s.Name()] = s
	return nil
}

// Column returns the named column
func (f *Frame) Column(name string) (*Series, bool) {
	s, ok := f.columns[name]
	return s, ok
}

// Columns returns the column names in construction order
func (f *Frame) Columns() []string {
	names := make([]string, len(f.names))
	copy(names, f.names)
	return names
}

// NumRows returns the row count shared by all columns
func (f *Frame) NumRows() int {
	if len(f.names) == 0 {
		return 0
	}
	return f.columns[f.names[0]].Len()
}

// NumCols returns the number of columns
func (f *Frame) NumCols() int {
	return len(f.names)
}

// MemoryUsage returns the total footprint of all columns in bytes
func (f *Frame) MemoryUsage() int64 {
	var total int64
	for _, name := range f.names {
		total += f.columns[name].MemoryUsage()
	}
	return total
}
