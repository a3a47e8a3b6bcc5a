package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
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

type BodyInfo struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Mass  float64 `json:"mass"`
	Size  float64 `json:"size"`
	Fixed bool    `json:"fixed,omitempty"`
}

type ConstantsInfo struct {
	Gravity            float64 `json:"gravity"`
	Softening          float64 `json:"softening"`
	Friction           float64 `json:"friction"`
	DistanceMultiplier float64 `json:"distance_multiplier"`
	TrailCapacity      int     `json:"trail_capacity"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Bodies    []BodyInfo         `json:"bodies"`
	Constants ConstantsInfo      `json:"constants"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Describe fills the body and constant sections of a run's metadata.
func Describe(preset string, seed int64, r *physics.Registry, c physics.Constants) RunMetadata {
	meta := RunMetadata{
		Preset: preset,
		Seed:   seed,
		Constants: ConstantsInfo{
			Gravity:            c.Gravity,
			Softening:          c.Softening,
			Friction:           c.Friction,
			DistanceMultiplier: c.DistanceMultiplier,
			TrailCapacity:      c.TrailCapacity,
		},
	}
	for _, b := range r.Bodies() {
		meta.Bodies = append(meta.Bodies, BodyInfo{
			Name:  b.Name,
			Color: ColorHex(b.Color),
			Mass:  b.Mass,
			Size:  b.Size,
			Fixed: b.Fixed,
		})
	}
	return meta
}

// ColorHex formats an RGBA color as #rrggbb.
func ColorHex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return cf.Hex()
}

// Save writes metadata.json and states.csv under a new run directory and
// returns the run id.
func (s *Store) Save(meta RunMetadata, rec *Recording) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", meta.Preset, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	if meta.Metrics == nil {
		meta.Metrics = map[string]float64{}
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, rec); err != nil {
		return "", err
	}
	return runID, nil
}

// WriteCSV writes a recording as tick,<name>_x,<name>_y,... rows.
func WriteCSV(out io.Writer, rec *Recording) error {
	w := csv.NewWriter(out)

	header := []string{"tick"}
	for _, name := range rec.Names {
		header = append(header, name+"_x", name+"_y")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, tick := range rec.Ticks {
		row := []string{strconv.Itoa(tick)}
		for _, p := range rec.Positions[i] {
			row = append(row,
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns the metadata of every readable run, oldest first.
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadStates(runID string) (*Recording, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rec, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return rec, nil
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(in io.Reader) (*Recording, error) {
	records, err := csv.NewReader(in).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header")
	}

	header := records[0]
	if len(header) == 0 || header[0] != "tick" || len(header)%2 != 1 {
		return nil, fmt.Errorf("malformed header %v", header)
	}

	rec := &Recording{}
	for i := 1; i < len(header); i += 2 {
		rec.Names = append(rec.Names, strings.TrimSuffix(header[i], "_x"))
	}

	for line, record := range records[1:] {
		tick, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}
		row := make([]dynamo.Vec2, len(rec.Names))
		for j := range row {
			x, errX := strconv.ParseFloat(record[1+2*j], 64)
			y, errY := strconv.ParseFloat(record[2+2*j], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("line %d: bad coordinate for %s", line+2, rec.Names[j])
			}
			row[j] = dynamo.Vec2{X: x, Y: y}
		}
		rec.Ticks = append(rec.Ticks, tick)
		rec.Positions = append(rec.Positions, row)
	}
	return rec, nil
}
