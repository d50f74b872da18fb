package cli

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/graphgazer/graphgazer/pkg/graph"
)

// loadGraph reads a graph snapshot and reports any records dropped during import.
func loadGraph(logger *log.Logger, path string) (*graph.Graph, error) {
	g, skipped, err := graph.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", path, err)
	}
	for _, reason := range skipped {
		logger.Debug("Skipped record", "reason", reason)
	}
	if len(skipped) > 0 {
		logger.Warnf("Skipped %d invalid records", len(skipped))
	}
	return g, nil
}
