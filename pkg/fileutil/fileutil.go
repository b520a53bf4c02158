// =============================================================================
// CSV to OFX/QIF Converter - File Management Utilities
// =============================================================================
//
// Helpers for the batch-processing surface: discovering statement files in
// the input directory, archiving inputs and outputs after successful
// processing, and generating output file names. File I/O lives here and in
// the cmd layer only; the conversion pipeline itself reads from io.Reader
// and writes to io.Writer.
//
// =============================================================================

package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager owns the input/output/archive directory layout for batch runs.
type Manager struct {
	InputDir         string
	OutputDir        string
	InputArchiveDir  string
	OutputArchiveDir string
}

// NewManager creates a Manager over the configured directories.
func NewManager(inputDir, outputDir, inputArchiveDir, outputArchiveDir string) *Manager {
	return &Manager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		OutputArchiveDir: outputArchiveDir,
	}
}

// EnsureDirectories creates any missing directories.
func (m *Manager) EnsureDirectories() error {
	for _, dir := range []string{m.InputDir, m.OutputDir, m.InputArchiveDir, m.OutputArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DiscoverInputFiles lists statement files (*.csv, *.xlsx) in the input
// directory, sorted by name for deterministic processing order.
func (m *Manager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(m.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			files = append(files, filepath.Join(m.InputDir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ArchiveInputFile moves a processed input file into the input archive,
// prefixing a timestamp so repeated runs do not collide.
func (m *Manager) ArchiveInputFile(path string) (string, error) {
	dst := m.archivePath(m.InputArchiveDir, path)
	if err := os.Rename(path, dst); err != nil {
		// Rename fails across filesystems; fall back to copy + remove.
		if err := copyFile(path, dst); err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", path, err)
		}
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("failed to remove %s after archiving: %w", path, err)
		}
	}
	return dst, nil
}

// ArchiveOutputFile copies a generated document into the output archive.
func (m *Manager) ArchiveOutputFile(path string) (string, error) {
	dst := m.archivePath(m.OutputArchiveDir, path)
	if err := copyFile(path, dst); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return dst, nil
}

func (m *Manager) archivePath(archiveDir, path string) string {
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(archiveDir, stamp+"_"+filepath.Base(path))
}

// GenerateOutputFileName expands the configured name format.
// Supported placeholders: {uuid}, {timestamp}, {mapping}, {format}.
func GenerateOutputFileName(format string, params map[string]string) string {
	name := format
	name = strings.ReplaceAll(name, "{uuid}", uuid.New().String())
	name = strings.ReplaceAll(name, "{timestamp}", time.Now().Format("20060102_150405"))
	for key, value := range params {
		name = strings.ReplaceAll(name, "{"+key+"}", value)
	}
	return name
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
