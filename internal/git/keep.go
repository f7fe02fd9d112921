package git

import (
	"context"
	"fmt"
	"os"
)

// KeepSource reads previously captured log output from a keep file.
// A keep file and live command output are equivalent once read.
type KeepSource struct {
	Path string
}

var _ Source = (*KeepSource)(nil)

// Read returns the keep file contents.
func (s *KeepSource) Read(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("keep file read failed: %w", err)
	}
	return string(data), nil
}

// KeepPath derives the keep file name for a dot file.
func KeepPath(dotFile string) string {
	return dotFile + ".keep"
}
