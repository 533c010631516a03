package tracing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sarchlab/pagesim/replacement"
)

var csvHeader = []string{
	"RunID", "Policy", "Capacity",
	"Position", "Page", "Outcome", "Slot", "Evicted", "Frames",
}

var errBadCSV = errors.New("malformed trace csv")

// csvCodec writes one row per step. The run columns repeat on every row so
// that each row stands alone in a spreadsheet.
type csvCodec struct{}

func (csvCodec) encode(w io.Writer, t Trace) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range t.Steps {
		evicted := ""
		if s.HasEvicted {
			evicted = strconv.Itoa(int(s.Evicted))
		}

		err := cw.Write([]string{
			t.RunID,
			t.Policy.String(),
			strconv.Itoa(t.Capacity),
			strconv.Itoa(s.Position),
			strconv.Itoa(int(s.Page)),
			s.Outcome.String(),
			strconv.Itoa(s.Slot),
			evicted,
			s.Frames.String(),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

func (csvCodec) decode(r io.Reader) (Trace, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	rows, err := cr.ReadAll()
	if err != nil {
		return Trace{}, err
	}

	if len(rows) < 2 {
		return Trace{}, fmt.Errorf("%w: no steps", errBadCSV)
	}

	var t Trace

	for i, row := range rows[1:] {
		if i == 0 {
			if t, err = csvTraceHeader(row); err != nil {
				return Trace{}, err
			}
		}

		step, err := csvStep(row)
		if err != nil {
			return Trace{}, fmt.Errorf("%w: row %d: %w", errBadCSV, i+2, err)
		}

		t.References = append(t.References, step.Page)
		t.Steps = append(t.Steps, step)
	}

	return t, nil
}

func csvTraceHeader(row []string) (Trace, error) {
	policy, err := replacement.ParsePolicy(row[1])
	if err != nil {
		return Trace{}, err
	}

	capacity, err := strconv.Atoi(row[2])
	if err != nil {
		return Trace{}, fmt.Errorf("%w: capacity: %w", errBadCSV, err)
	}

	return Trace{RunID: row[0], Policy: policy, Capacity: capacity}, nil
}

func csvStep(row []string) (replacement.StepResult, error) {
	var (
		s   replacement.StepResult
		err error
		n   int
	)

	if s.Position, err = strconv.Atoi(row[3]); err != nil {
		return s, err
	}

	if n, err = strconv.Atoi(row[4]); err != nil {
		return s, err
	}
	s.Page = replacement.Page(n)

	if err = s.Outcome.UnmarshalText([]byte(row[5])); err != nil {
		return s, err
	}

	if s.Slot, err = strconv.Atoi(row[6]); err != nil {
		return s, err
	}

	if row[7] != "" {
		if n, err = strconv.Atoi(row[7]); err != nil {
			return s, err
		}

		s.Evicted = replacement.Page(n)
		s.HasEvicted = true
	}

	s.Frames, err = replacement.ParseFrames(row[8])

	return s, err
}
