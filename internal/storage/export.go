package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/isingviz/internal/fit"
)

var ErrFormat = errors.New("storage: unknown export format")

// FitRecord is one exported row of a fit table.
type FitRecord struct {
	Row     int     `json:"row"`
	Rate    float64 `json:"rate"`
	StdErr  float64 `json:"stderr"`
	ChiSq   float64 `json:"chi_sq"`
	DOF     int     `json:"dof"`
	Points  int     `json:"points"`
	Dropped []int   `json:"dropped,omitempty"`
	Error   string  `json:"error,omitempty"`
}

func fitRecords(outcomes []fit.Outcome) []FitRecord {
	out := make([]FitRecord, len(outcomes))
	for i, o := range outcomes {
		out[i] = FitRecord{
			Row:     o.Row,
			Rate:    o.Result.Rate,
			StdErr:  o.Result.StdErr,
			ChiSq:   o.Result.ChiSq,
			DOF:     o.Result.DOF,
			Points:  o.Result.Points,
			Dropped: o.Masked.Dropped,
		}
		if o.Err != nil {
			out[i].Error = o.Err.Error()
		}
	}
	return out
}

// ExportFits writes the fit outcomes as "json" or "csv".
func ExportFits(w io.Writer, format string, outcomes []fit.Outcome) error {
	records := fitRecords(outcomes)
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"row", "rate", "stderr", "chi_sq", "dof", "points", "dropped", "error"}); err != nil {
			return err
		}
		for _, r := range records {
			row := []string{
				strconv.Itoa(r.Row),
				strconv.FormatFloat(r.Rate, 'g', -1, 64),
				strconv.FormatFloat(r.StdErr, 'g', -1, 64),
				strconv.FormatFloat(r.ChiSq, 'g', -1, 64),
				strconv.Itoa(r.DOF),
				strconv.Itoa(r.Points),
				strconv.Itoa(len(r.Dropped)),
				r.Error,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("%w: %q", ErrFormat, format)
}
