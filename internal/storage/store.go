package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/loadshare"
)

const (
	metadataFile = "metadata.json"
	loadsFile    = "loads.csv"
)

var loadsHeader = []string{"cg_m", "axle1_n", "axle2_n", "axle3_n", "axle4_n", "front_n", "rear_n"}

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
	ID          string                    `json:"id"`
	Model       string                    `json:"model"`
	Vehicle     string                    `json:"vehicle"`
	Timestamp   time.Time                 `json:"timestamp"`
	Weight      float64                   `json:"weight_n"`
	Axles       [chassis.NumAxles]float64 `json:"axles_m"`
	Sweep       loadshare.SweepRange      `json:"sweep"`
	Assumptions chassis.Assumptions       `json:"assumptions"`
	Points      int                       `json:"points"`
	Skipped     []float64                 `json:"skipped_cg_m,omitempty"`
	Special     map[string]float64        `json:"special,omitempty"`
}

// Layout rebuilds the axle layout the run was computed for.
func (m *RunMetadata) Layout() chassis.AxleLayout {
	return chassis.AxleLayout{Positions: m.Axles}
}

// Save writes a sweep to a new run directory and returns its id.
func (s *Store) Save(v chassis.Vehicle, r loadshare.SweepRange, a chassis.Assumptions, res *loadshare.SweepResult) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", res.Model, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Model:       res.Model,
		Vehicle:     v.Name,
		Timestamp:   now,
		Weight:      v.Weight,
		Axles:       v.Layout.Positions,
		Sweep:       r,
		Assumptions: a,
		Points:      len(res.Points),
	}
	for _, sp := range res.Skipped {
		meta.Skipped = append(meta.Skipped, sp.CG)
	}
	if sp, ok := loadshare.FindSpecialPoints(res.Points); ok {
		meta.Special = map[string]float64{
			"balance_cg_m":   sp.Balance.CG,
			"max_front_cg_m": sp.MaxFront.CG,
			"max_rear_cg_m":  sp.MaxRear.CG,
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, loadsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, res.Points); err != nil {
		return "", err
	}

	log.Debugf("[storage] saved run %s (%d points, %d skipped)", runID, len(res.Points), len(res.Skipped))
	return runID, nil
}

// WriteCSV writes one row per distribution in the loads.csv layout.
func WriteCSV(out io.Writer, points []loadshare.Distribution) error {
	w := csv.NewWriter(out)
	if err := w.Write(loadsHeader); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{formatFloat(p.CG)}
		for _, f := range p.Axles {
			row = append(row, formatFloat(f))
		}
		row = append(row, formatFloat(p.Front()), formatFloat(p.Rear()))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns every run, newest first.
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
			log.Warnf("[storage] skipping %s: %v", entry.Name(), err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// Latest returns the id of the newest run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("storage: no runs in %s", s.baseDir)
	}
	return runs[0].ID, nil
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

// LoadSweep reads a run back into distributions.
func (s *Store) LoadSweep(runID string) (*RunMetadata, []loadshare.Distribution, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, loadsFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(loadsHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return meta, []loadshare.Distribution{}, nil
	}

	points := make([]loadshare.Distribution, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [chassis.NumAxles + 1]float64
		for j := range vals {
			vals[j], err = strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", loadsFile, i+2, err)
			}
		}
		d := loadshare.Distribution{
			Model:  meta.Model,
			CG:     vals[0],
			Weight: meta.Weight,
			Layout: meta.Layout(),
		}
		copy(d.Axles[:], vals[1:])
		points = append(points, d)
	}

	return meta, points, nil
}

// ExportData is the self-contained JSON form of a run.
type ExportData struct {
	Run    RunMetadata              `json:"run"`
	Points []loadshare.Distribution `json:"points"`
}

func ExportJSON(out io.Writer, meta *RunMetadata, points []loadshare.Distribution) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Points: points})
}
