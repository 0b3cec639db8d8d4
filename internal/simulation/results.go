package simulation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// ReadmeFile is written next to the results and describes the batch.
const ReadmeFile = "README.csv"

// Header is the column layout of the results CSV.
var Header = []string{
	"community_number",
	"collective_accuracy",
	"collective_accuracy_precision",
	"minority_competence",
	"majority_competence",
	"number_of_minority",
	"influence_minority_proportion",
	"homophily",
}

// Result is one row of batch output. The elite partition is the minority.
type Result struct {
	CommunityNumber             int      `json:"community_number"`
	CommunityID                 string   `json:"community_id"`
	CollectiveAccuracy          float64  `json:"collective_accuracy"`
	CollectiveAccuracyPrecision float64  `json:"collective_accuracy_precision"`
	MinorityCompetence          float64  `json:"minority_competence"`
	MajorityCompetence          float64  `json:"majority_competence"`
	NumberOfMinority            int      `json:"number_of_minority"`
	InfluenceMinorityProportion float64  `json:"influence_minority_proportion"`
	Homophily                   *float64 `json:"homophily"`
}

// Record renders r in Header order. A missing homophily is written as "None".
func (r Result) Record() []string {
	homophily := "None"
	if r.Homophily != nil {
		homophily = formatFloat(*r.Homophily)
	}
	return []string{
		strconv.Itoa(r.CommunityNumber),
		formatFloat(r.CollectiveAccuracy),
		formatFloat(r.CollectiveAccuracyPrecision),
		formatFloat(r.MinorityCompetence),
		formatFloat(r.MajorityCompetence),
		strconv.Itoa(r.NumberOfMinority),
		formatFloat(r.InfluenceMinorityProportion),
		homophily,
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ResultWriter receives batch results in community order.
type ResultWriter interface {
	Write(Result) error
	Flush() error
}

// CSVResultWriter writes results as CSV with Header as the first line.
type CSVResultWriter struct {
	w *csv.Writer
}

// NewCSVResultWriter writes the header to w and returns the writer.
func NewCSVResultWriter(w io.Writer) (*CSVResultWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return nil, fmt.Errorf("writing results header: %w", err)
	}
	return &CSVResultWriter{w: cw}, nil
}

// Write appends one row.
func (c *CSVResultWriter) Write(r Result) error {
	if err := c.w.Write(r.Record()); err != nil {
		return fmt.Errorf("writing result %d: %w", r.CommunityNumber, err)
	}
	return nil
}

// Flush flushes buffered rows to the underlying writer.
func (c *CSVResultWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// SliceResultWriter collects results in memory.
type SliceResultWriter struct {
	Results []Result
}

// Write appends r.
func (s *SliceResultWriter) Write(r Result) error {
	s.Results = append(s.Results, r)
	return nil
}

// Flush is a no-op.
func (s *SliceResultWriter) Flush() error { return nil }

// WriteReadme writes the batch description to dir/README.csv.
func WriteReadme(dir string, s Scenario, runID string, seed uint64) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, ReadmeFile))
	if err != nil {
		return fmt.Errorf("creating readme: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(s.readmeRows(runID, seed)); err != nil {
		return fmt.Errorf("writing readme: %w", err)
	}
	return f.Close()
}
