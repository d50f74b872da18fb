package scene

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/graphgazer/graphgazer/pkg/graph"
)

// ExportPrefix is the filename prefix of exported snapshots.
const ExportPrefix = "graphgazer_export"

// Export serializes the canonical snapshot as JSON
// ({"nodes": [...], "edges": [...]}) to w.
func (s *Scene) Export(w io.Writer) error {
	return graph.Write(s.g, w)
}

// ExportFile writes the canonical snapshot to a prefixed, timestamped
// JSON file in dir and returns the path.
func (s *Scene) ExportFile(dir string) (string, error) {
	name := fmt.Sprintf("%s_%s.json", ExportPrefix, time.Now().Format("20060102T150405"))
	path := filepath.Join(dir, name)
	if err := graph.WriteFile(s.g, path); err != nil {
		return "", err
	}
	return path, nil
}
