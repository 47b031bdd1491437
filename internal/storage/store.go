package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/particles"
)

const (
	metadataFile = "metadata.json"
	finalFile    = "final.csv"
	metricsFile  = "metrics.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	RoomSize  float64            `json:"room_size"`
	Particles int                `json:"particles"`
	MaxIter   int64              `json:"max_iter"`
	Ticks     int64              `json:"ticks"`
	Dt        float64            `json:"dt"`
	SimTime   float64            `json:"sim_time"`
	Clock     string             `json:"clock"`
	Workers   int                `json:"workers"`
	SelfPair  string             `json:"self_pair"`
	G         float64            `json:"g"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Series is one metric's sampled values over a run.
type Series struct {
	Name    string
	Samples []metrics.Sample
}

// Save writes a run directory holding the metadata, the final particle
// state and the sampled metric series. Per-tick positions are never kept.
func (s *Store) Save(meta RunMetadata, final *particles.Store, series []Series) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFinal(filepath.Join(runDir, finalFile), final); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, metricsFile), series); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeFinal(path string, st *particles.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"index", "x", "y", "vx", "vy"}); err != nil {
		return err
	}
	if st != nil {
		for i := 0; i < st.Len(); i++ {
			row := []string{
				strconv.Itoa(i),
				formatFloat(st.X[i]),
				formatFloat(st.Y[i]),
				formatFloat(st.VX[i]),
				formatFloat(st.VY[i]),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func writeSeries(path string, series []Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time"}
	rows := 0
	for _, s := range series {
		header = append(header, s.Name)
		if len(s.Samples) > rows {
			rows = len(s.Samples)
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		row := make([]string, 1, len(header))
		for _, s := range series {
			if i < len(s.Samples) {
				if row[0] == "" {
					row[0] = formatFloat(s.Samples[i].Time)
				}
				row = append(row, formatFloat(s.Samples[i].Value))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}

		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadFinal reads back the particle state saved at the end of a run.
func (s *Store) LoadFinal(runID string) (*particles.Store, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, finalFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return particles.New(0), nil
	}

	st := particles.New(len(records) - 1)
	for i, record := range records[1:] {
		if len(record) < 5 {
			return nil, fmt.Errorf("%s: row %d has %d fields", finalFile, i+1, len(record))
		}
		cols := []*float64{&st.X[i], &st.Y[i], &st.VX[i], &st.VY[i]}
		for c, dst := range cols {
			v, err := strconv.ParseFloat(record[c+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", finalFile, i+1, err)
			}
			*dst = v
		}
	}
	return st, nil
}

// LoadSeries reads back the sampled metric series of a run.
func (s *Store) LoadSeries(runID string) ([]Series, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, metricsFile))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []Series{}, nil
	}

	header := records[0]
	series := make([]Series, len(header)-1)
	for i := range series {
		series[i] = Series{Name: header[i+1], Samples: make([]metrics.Sample, 0, len(records)-1)}
	}

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		for j := 1; j < len(record) && j <= len(series); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			series[j-1].Samples = append(series[j-1].Samples, metrics.Sample{Time: t, Value: v})
		}
	}

	return series, nil
}
