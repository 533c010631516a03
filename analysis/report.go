package analysis

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/sarchlab/pagesim/replacement"
)

// WriteComparisonCSV writes one row per policy.
func WriteComparisonCSV(w io.Writer, c Comparison) error {
	csvWriter := csv.NewWriter(w)

	header := []string{"Policy", "Frames", "References", "Hits", "Faults", "HitRatio"}
	if err := csvWriter.Write(header); err != nil {
		return err
	}

	for _, p := range replacement.Policies() {
		s, ok := c.Stats[p]
		if !ok {
			continue
		}

		err := csvWriter.Write([]string{
			p.String(),
			strconv.Itoa(c.Capacity),
			strconv.Itoa(s.References),
			strconv.Itoa(s.Hits),
			strconv.Itoa(s.Faults),
			strconv.FormatFloat(s.HitRatio(), 'f', 4, 64),
		})
		if err != nil {
			return err
		}
	}

	csvWriter.Flush()

	return csvWriter.Error()
}

// WriteSweepCSV writes one row per frame count.
func WriteSweepCSV(w io.Writer, s Sweep) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write([]string{"Policy", "Frames", "Faults", "Anomaly"}); err != nil {
		return err
	}

	anomalous := make(map[int]bool)
	for _, a := range s.Anomalies() {
		anomalous[a.Capacity] = true
	}

	for _, p := range s.Points {
		err := csvWriter.Write([]string{
			s.Policy.String(),
			strconv.Itoa(p.Capacity),
			strconv.Itoa(p.Faults),
			strconv.FormatBool(anomalous[p.Capacity]),
		})
		if err != nil {
			return err
		}
	}

	csvWriter.Flush()

	return csvWriter.Error()
}
