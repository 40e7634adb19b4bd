package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rustyeddy/dealersim/sim"
)

// ResultsHeader is the first row of every results CSV.
var ResultsHeader = []string{"sim", "period", "price"}

var runsHeader = []string{"run_id", "experiment", "created", "seed", "price_scale", "simulations", "periods", "agents", "workers", "file"}

// resultsDir holds per-experiment files apart from runs.csv, so no experiment
// name can clobber the index.
const resultsDir = "results"

// CSVJournal writes a runs.csv index into dir and one results/<experiment>.csv
// per run. A later run of the same experiment overwrites its file.
type CSVJournal struct {
	dir  string
	runs *csv.Writer
	rf   *os.File
}

// NewCSV creates dir and its results directory and starts a fresh runs.csv.
func NewCSV(dir string) (*CSVJournal, error) {
	if err := os.MkdirAll(filepath.Join(dir, resultsDir), 0755); err != nil {
		return nil, err
	}
	rf, err := os.Create(filepath.Join(dir, "runs.csv"))
	if err != nil {
		return nil, err
	}

	rw := csv.NewWriter(rf)
	if err := rw.Write(runsHeader); err != nil {
		rf.Close()
		return nil, err
	}
	rw.Flush()
	if err := rw.Error(); err != nil {
		rf.Close()
		return nil, err
	}

	return &CSVJournal{dir: dir, runs: rw, rf: rf}, nil
}

// ResultsPath is where results of experiment are written.
func (j *CSVJournal) ResultsPath(experiment string) string {
	return filepath.Join(j.dir, resultsFile(experiment))
}

// resultsFile is the results path relative to the journal dir.
func resultsFile(experiment string) string {
	return filepath.Join(resultsDir, experiment+".csv")
}

func (j *CSVJournal) RecordRun(r Run) error {
	err := j.runs.Write([]string{
		r.RunID,
		r.Experiment,
		r.Created.UTC().Format(time.RFC3339),
		strconv.FormatUint(r.Seed, 10),
		strconv.FormatFloat(r.PriceScale, 'g', -1, 64),
		strconv.Itoa(r.Simulations),
		strconv.Itoa(r.Periods),
		strconv.Itoa(r.Agents),
		strconv.Itoa(r.Workers),
		filepath.ToSlash(resultsFile(r.Experiment)),
	})
	if err != nil {
		return err
	}
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordResults(r Run, results []sim.Result) error {
	f, err := os.Create(j.ResultsPath(r.Experiment))
	if err != nil {
		return err
	}
	if err := WriteResultsCSV(f, results); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", r.Experiment, err)
	}
	return f.Close()
}

func (j *CSVJournal) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	return j.rf.Close()
}

// WriteResultsCSV writes the header and one row per result, prices with five
// fixed decimals.
func WriteResultsCSV(w io.Writer, results []sim.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResultsHeader); err != nil {
		return err
	}
	for _, r := range results {
		err := cw.Write([]string{
			strconv.Itoa(r.Sim),
			strconv.Itoa(r.Period),
			price(r.Price),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadResultsCSV parses what WriteResultsCSV produced.
func ReadResultsCSV(r io.Reader) ([]sim.Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ResultsHeader)

	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var out []sim.Result
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		s, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: sim: %w", line, err)
		}
		p, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: period: %w", line, err)
		}
		px, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: price: %w", line, err)
		}
		out = append(out, sim.Result{Sim: s, Period: p, Price: px})
	}
	return out, nil
}

func price(x float64) string {
	return strconv.FormatFloat(x, 'f', 5, 64)
}
