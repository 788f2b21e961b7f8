package tree

import (
	"os"
	"path/filepath"
)

// LocalLister lists directories on the local filesystem
type LocalLister struct{}

// ListDirectory implements Lister using os.ReadDir
func (LocalLister) ListDirectory(path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		var size int64
		isDir := de.IsDir()
		if info, err := de.Info(); err == nil {
			size = info.Size()
		}
		// Follow symlinks so linked directories stay browsable
		if de.Type()&os.ModeSymlink != 0 {
			if target, err := os.Stat(filepath.Join(path, de.Name())); err == nil {
				isDir = target.IsDir()
				size = target.Size()
			}
		}
		entries = append(entries, Entry{
			Name:  de.Name(),
			IsDir: isDir,
			Size:  size,
		})
	}
	return entries, nil
}
