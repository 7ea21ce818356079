package sim

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var reportHeader = []string{"trial", "used", "full_ms", "cached_ms", "ideal_ms", "finished"}

func millis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
}

// WriteReport writes one CSV row per outcome, after a header row.
func WriteReport(w io.Writer, outcomes []Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, o := range outcomes {
		row := []string{
			strconv.Itoa(o.Trial),
			strconv.Itoa(o.Used),
			millis(o.Full),
			millis(o.Cached),
			millis(o.Ideal),
			strconv.FormatBool(o.Finished),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
