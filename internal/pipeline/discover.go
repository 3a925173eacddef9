package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"subweave/internal/services"
)

// mediaExtensions lists the container and audio formats the pipeline accepts.
var mediaExtensions = map[string]struct{}{
	".mp4": {}, ".mkv": {}, ".mov": {}, ".webm": {}, ".avi": {}, ".wmv": {},
	".m4v": {}, ".mts": {}, ".m2ts": {},
	".mp3": {}, ".wav": {}, ".m4a": {}, ".aac": {}, ".flac": {}, ".ogg": {},
	".opus": {}, ".wma": {},
}

// IsMediaFile reports whether the path has a recognized media extension.
func IsMediaFile(path string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Discover expands the argument list into concrete media files. Directories
// are scanned (recursively when configured); explicit file arguments are
// accepted regardless of extension. The result is sorted and de-duplicated.
func Discover(args []string, recursive bool) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", arg, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, services.Wrap(services.ErrNotFound, "discover", "stat input", "", err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		if err := scanDir(abs, recursive, add); err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func scanDir(dir string, recursive bool, add func(string)) error {
	if recursive {
		return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsMediaFile(path) {
				add(path)
			}
			return nil
		})
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if IsMediaFile(path) {
			add(path)
		}
	}
	return nil
}
