package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPathManager implements path management functionality
type DefaultPathManager struct{}

// NewDefaultPathManager creates a new path manager
func NewDefaultPathManager() *DefaultPathManager {
	return &DefaultPathManager{}
}

// GetDefaultOutputDir returns results/<NAME>_<interval>
func (p *DefaultPathManager) GetDefaultOutputDir(name, interval string) string {
	n := strings.ToUpper(strings.TrimSpace(name))
	i := strings.ToLower(strings.TrimSpace(interval))
	if n == "" {
		n = "UNKNOWN"
	}
	if i == "" {
		i = "unknown"
	}
	n = strings.NewReplacer("/", "-", " ", "_", "[", "_", "]", "").Replace(n)

	return filepath.Join("results", fmt.Sprintf("%s_%s", n, i))
}

// EnsureDirectoryExists creates the parent directory of path if it doesn't exist
func (p *DefaultPathManager) EnsureDirectoryExists(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// DefaultOutputDir is a package-level convenience for GetDefaultOutputDir
func DefaultOutputDir(name, interval string) string {
	return NewDefaultPathManager().GetDefaultOutputDir(name, interval)
}

func isXLSX(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xlsx")
}
