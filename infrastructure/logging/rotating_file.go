package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
)

const (
	rotateThresholdKB = 10 * 1024
	rotateMaxRolls    = 3
)

// OpenRotatingFile opens path for appending, rolling it over every 10 MiB and
// keeping the last three rolls.
func OpenRotatingFile(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	r, err := rotator.New(path, rotateThresholdKB, false, rotateMaxRolls)
	if err != nil {
		return nil, fmt.Errorf("failed to create file rotator: %w", err)
	}
	return r, nil
}
