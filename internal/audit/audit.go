package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Snapshotter writes the JSON of confirmed drafts to a directory, one file
// per confirmation, so a listing can be traced back to what Google returned.
type Snapshotter struct {
	Dir string
}

func NewSnapshotter(dir string) *Snapshotter {
	return &Snapshotter{Dir: dir}
}

// SaveJSON saves the provided data as JSON to a file with UUID4 filename
func (a *Snapshotter) SaveJSON(data any) (string, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	filename := fmt.Sprintf("%s.json", uuid.NewString())
	path := filepath.Join(a.Dir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot file: %w", err)
	}

	log.Printf("[AUDIT] Saved draft snapshot %s", path)
	return filename, nil
}
