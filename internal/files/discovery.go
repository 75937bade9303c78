package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindFilesBySuffix lists regular files in dir whose name ends with suffix,
// sorted by name.
func (d *Discovery) FindFilesBySuffix(dir, suffix string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// FindChunks returns the chunk identifiers of every file in dir named
// <chunk><suffix>, sorted. Files whose identifier would be empty are ignored.
func (d *Discovery) FindChunks(dir, suffix string) ([]string, error) {
	files, err := d.FindFilesBySuffix(dir, suffix)
	if err != nil {
		return nil, err
	}

	chunks := make([]string, 0, len(files))
	for _, f := range files {
		id := strings.TrimSuffix(f.Name, suffix)
		if id == "" {
			continue
		}
		chunks = append(chunks, id)
	}
	return chunks, nil
}
