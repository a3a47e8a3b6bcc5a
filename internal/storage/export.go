package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravtrail/internal/dynamo"
)

type ExportData struct {
	Meta   RunMetadata   `json:"meta"`
	Steps  int           `json:"steps"`
	Ticks  []int         `json:"ticks"`
	Bodies []ExportTrack `json:"bodies"`
}

// ExportTrack is the path of one body, parallel to ExportData.Ticks.
type ExportTrack struct {
	Name string        `json:"name"`
	Path []dynamo.Vec2 `json:"path"`
}

func ExportJSON(w io.Writer, meta RunMetadata, rec *Recording) error {
	data := ExportData{
		Meta:   meta,
		Steps:  rec.Len(),
		Ticks:  rec.Ticks,
		Bodies: make([]ExportTrack, len(rec.Names)),
	}

	for j, name := range rec.Names {
		track := ExportTrack{Name: name, Path: make([]dynamo.Vec2, rec.Len())}
		for i, row := range rec.Positions {
			track.Path[i] = row[j]
		}
		data.Bodies[j] = track
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
