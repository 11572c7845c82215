package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yashsay/message-app/internal/models"
)

// ArtifactWriter persists a built snapshot's artifacts (vectors plus the
// metadata needed to hydrate a match) so the index survives on disk or in the
// database alongside the authoritative store. Artifacts are a cache: they are
// always reconstructible by rebuilding from the conversation store.
type ArtifactWriter interface {
	Write(ctx context.Context, snap *Snapshot) error
}

const (
	metaFileName    = "index_meta.json"
	vectorsFileName = "index_vectors.json"
)

type artifactMeta struct {
	Embedder  string               `json:"embedder"`
	Dimension int                  `json:"dimension"`
	Count     int                  `json:"count"`
	BuiltAt   time.Time            `json:"builtAt"`
	Records   []models.FlatMessage `json:"records"`
}

// FileArtifactWriter persists index artifacts as a metadata JSON file and a
// vectors JSON file under a data directory. Each file is written to a temp
// name and renamed into place, so a failed write never clobbers the previous
// working artifacts.
type FileArtifactWriter struct {
	dir string
}

// NewFileArtifactWriter creates a writer rooted at dir, creating it if needed.
func NewFileArtifactWriter(dir string) (*FileArtifactWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact dir: %w", err)
	}
	return &FileArtifactWriter{dir: dir}, nil
}

// Write persists the snapshot's metadata and vectors.
func (w *FileArtifactWriter) Write(_ context.Context, snap *Snapshot) error {
	meta := artifactMeta{
		Embedder:  snap.embedder.Name(),
		Dimension: snap.Dimension(),
		Count:     snap.Len(),
		BuiltAt:   snap.BuiltAt(),
		Records:   snap.Records(),
	}
	if err := writeJSONAtomic(filepath.Join(w.dir, metaFileName), meta); err != nil {
		return fmt.Errorf("writing index metadata: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(w.dir, vectorsFileName), snap.Vectors()); err != nil {
		return fmt.Errorf("writing index vectors: %w", err)
	}
	return nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
