package plantseed

import (
	"context"
	"fmt"
	"os"

	"github.com/yanqian/greenguardian/internal/domain/plant"
)

// FileSource reads the seed document from local disk.
type FileSource struct {
	path string
}

// NewFileSource constructs a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return data, nil
}

func (s *FileSource) Describe() string {
	return "file://" + s.path
}

var _ plant.SeedSource = (*FileSource)(nil)
