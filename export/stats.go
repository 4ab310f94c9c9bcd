package export

import (
	"strconv"
	"time"
)

// Stats summarizes an export pass.
type Stats struct {
	Objects         int
	SkippedObjects  int
	Instances       int
	Lights          int
	AreaLights      int
	DeletedLights   int
	Materials       int
	FailedMaterials int
	Triangles       int
	Elapsed         time.Duration
}

// Rows returns the stats as label/value pairs in display order.
func (s *Stats) Rows() [][]string {
	return [][]string{
		{"objects", strconv.Itoa(s.Objects)},
		{"skipped objects", strconv.Itoa(s.SkippedObjects)},
		{"instances", strconv.Itoa(s.Instances)},
		{"triangles", strconv.Itoa(s.Triangles)},
		{"lights", strconv.Itoa(s.Lights)},
		{"area lights", strconv.Itoa(s.AreaLights)},
		{"deleted lights", strconv.Itoa(s.DeletedLights)},
		{"materials", strconv.Itoa(s.Materials)},
		{"failed materials", strconv.Itoa(s.FailedMaterials)},
		{"elapsed", s.Elapsed.String()},
	}
}
