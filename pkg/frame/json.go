package frame

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"github.com/ajitpratap0/strata/pkg/errors"
	jsonpool "github.com/ajitpratap0/strata/pkg/json"
)

// Records returns the frame in records orientation: one map per row with
// column names as keys. Missing slots are rendered as nil.
func (f *Frame) Records() []map[string]interface{} {
	rows := make([]map[string]interface{}, f.NumRows())
	for i := range rows {
		row := make(map[string]interface{}, f.NumCols())
		for _, name := range f.names {
			if v, ok := f.columns[name].Get(i); ok {
				row[name] = v
			} else {
				row[name] = nil
			}
		}
		rows[i] = row
	}
	return rows
}

// MarshalJSON renders the frame in records orientation
func (f *Frame) MarshalJSON() ([]byte, error) {
	buf := jsonpool.GetBuffer()
	defer jsonpool.PutBuffer(buf)

	if err := jsonpool.MarshalToWriter(buf, f.Records()); err != nil {
		return nil, err
	}

	out := bytes.TrimRight(buf.Bytes(), "\n")
	result := make([]byte, len(out))
	copy(result, out)
	return result, nil
}

// WriteJSON streams the frame in records orientation to w
func (f *Frame) WriteJSON(w io.Writer) error {
	return jsonpool.MarshalToWriter(w, f.Records())
}

// ReadJSON reads a frame from records-orientation JSON. The records form
// does not carry column order, so columns are sorted by name. Non-numeric
// cells are rejected; nulls become missing slots.
func ReadJSON(r io.Reader) (*Frame, error) {
	var records []map[string]interface{}
	if err := jsonpool.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to decode records")
	}
	if len(records) == 0 {
		return New()
	}

	names := make([]string, 0, len(records[0]))
	for name := range records[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]*Series, 0, len(names))
	for _, name := range names {
		values := make([]float64, len(records))
		valid := make([]bool, len(records))
		for i, rec := range records {
			switch cell := rec[name].(type) {
			case nil:
			case json.Number:
				v, err := cell.Float64()
				if err != nil {
					return nil, errors.Wrap(err, errors.ErrorTypeData,
						"non-numeric cell in column "+name)
				}
				values[i] = v
				valid[i] = true
			default:
				return nil, errors.Newf(errors.ErrorTypeData,
					"column %q row %d holds %T, expected number or null", name, i, cell)
			}
		}

		s, err := NewMaskedSeries(name, values, valid)
		if err != nil {
			return nil, err
		}
		cols = append(cols, s)
	}

	return New(cols...)
}
