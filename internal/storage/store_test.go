package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/gravtrail/internal/dynamo"
	"github.com/san-kum/gravtrail/internal/physics"
	"github.com/san-kum/gravtrail/internal/sim"
)

func testRecording() *Recording {
	return &Recording{
		Names: []string{"sun", "red"},
		Ticks: []int{0, 1, 2},
		Positions: [][]dynamo.Vec2{
			{{X: 0, Y: 0}, {X: -1, Y: -1}},
			{{X: 0, Y: 0}, {X: -0.99, Y: -0.985}},
			{{X: 0, Y: 0}, {X: -0.97123456789, Y: -0.96}},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Preset:  "test",
		Seed:    42,
		Ticks:   2,
		Bodies:  []BodyInfo{{Name: "sun", Color: "#808080", Mass: 10, Fixed: true}, {Name: "red", Color: "#b20000", Mass: 1}},
		Metrics: map[string]float64{"kinetic_energy": 1.5},
	}

	runID, err := st.Save(meta, testRecording())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != runID || loaded.Seed != 42 || loaded.Preset != "test" {
		t.Errorf("metadata mismatch: %+v", loaded)
	}
	if loaded.Metrics["kinetic_energy"] != 1.5 {
		t.Errorf("expected kinetic_energy 1.5, got %f", loaded.Metrics["kinetic_energy"])
	}
	if !reflect.DeepEqual(loaded.Bodies, meta.Bodies) {
		t.Errorf("bodies = %+v", loaded.Bodies)
	}

	rec, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if !reflect.DeepEqual(rec, testRecording()) {
		t.Errorf("recording round trip mismatch: %+v", rec)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, preset := range []string{"a", "b"} {
		if _, err := st.Save(RunMetadata{Preset: preset}, testRecording()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 || runs[0].Preset != "a" || runs[1].Preset != "b" {
		t.Errorf("expected runs a then b, got %+v", runs)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("List() = %v, %v; want empty, nil", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Preset: "test"}, testRecording())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatal("states.csv not created")
	}
	if first := strings.SplitN(string(data), "\n", 2)[0]; first != "tick,sun_x,sun_y,red_x,red_y" {
		t.Errorf("unexpected header %q", first)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []string{
		"",
		"time,a_x,a_y\n",
		"tick,a_x\n",
		"tick,a_x,a_y\nzero,1,2\n",
		"tick,a_x,a_y\n0,1,oops\n",
	}
	for _, in := range tests {
		if _, err := ReadCSV(strings.NewReader(in)); err == nil {
			t.Errorf("ReadCSV(%q): expected error", in)
		}
	}
}

func TestRecorder(t *testing.T) {
	reg, err := physics.NewRegistry([]physics.BodySpec{
		{Name: "sun", Mass: 10, Fixed: true},
		{Name: "planet", Pos: dynamo.Vec2{X: 0.5}, Mass: 1},
	}, 4)
	if err != nil {
		t.Fatal(err)
	}
	integ, _ := physics.NewIntegrator(physics.DefaultConstants())
	s := sim.New(reg, integ)

	recorder := NewRecorder(reg, 5)
	s.AddObserver(recorder)
	for i := 0; i < 12; i++ {
		s.Step()
	}

	rec := recorder.Recording()
	if !reflect.DeepEqual(rec.Ticks, []int{0, 5, 10}) {
		t.Errorf("ticks = %v, want [0 5 10]", rec.Ticks)
	}
	if rec.Positions[0][1] != (dynamo.Vec2{X: 0.5}) {
		t.Errorf("tick 0 not captured before stepping: %v", rec.Positions[0][1])
	}
	if rec.Index("planet") != 1 || rec.Index("moon") != -1 {
		t.Error("Index lookup wrong")
	}

	xs, ys := rec.Series(1)
	if len(xs) != 3 || len(ys) != 3 || xs[0] != 0.5 {
		t.Errorf("series = %v %v", xs, ys)
	}
	if xs[2] >= xs[0] {
		t.Error("planet should fall toward the sun")
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{ID: "r1", Preset: "test"}, testRecording()); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Steps != 3 || len(data.Bodies) != 2 {
		t.Fatalf("steps=%d bodies=%d", data.Steps, len(data.Bodies))
	}
	if data.Bodies[1].Name != "red" || data.Bodies[1].Path[1] != (dynamo.Vec2{X: -0.99, Y: -0.985}) {
		t.Errorf("red track = %+v", data.Bodies[1])
	}
	if !strings.Contains(buf.String(), `"x": -1`) {
		t.Error("positions should use lowercase keys")
	}
}

func TestColorHex(t *testing.T) {
	if got := ColorHex(physics.Body{}.Color); got != "#000000" {
		t.Errorf("ColorHex(zero) = %s", got)
	}
}
