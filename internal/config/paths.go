package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the application's filesystem layout.
// All paths resolve relative to the executable directory, never the
// current working directory, so runs behave the same from any shell.
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}
	exeDir := filepath.Dir(exe)

	dataDir := filepath.Join(exeDir, "data")
	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(exeDir, "logs"),
	}, nil
}

// PathsIn returns a Paths rooted at an explicit directory. Used when the
// caller overrides the output location (-out flag) and in tests.
func PathsIn(root string) *Paths {
	dataDir := filepath.Join(root, "data")
	return &Paths{
		ExecutableDir: root,
		DataDir:       dataDir,
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(root, "logs"),
	}
}

// EnsureDirectories creates all required directories
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}
