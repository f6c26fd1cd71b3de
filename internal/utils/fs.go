package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// invalidDirChars matches characters unsafe in a working-copy directory name.
var invalidDirChars = regexp.MustCompile(`[^\w\-.]`)

// SanitizeRepoName sanitizes a repository name for use as a directory name.
func SanitizeRepoName(name string) string {
	name = invalidDirChars.ReplaceAllString(name, "_")
	if name == "" {
		name = "repo"
	}
	return name
}

// DirSizeMB computes the total size of all regular files under path,
// in megabytes.
func DirSizeMB(path string) (float64, error) {
	var total int64
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return float64(total) / (1024 * 1024), nil
}

// RemoveDirQuiet deletes a directory tree, ignoring errors. Used on
// cleanup paths that must never mask the original failure.
func RemoveDirQuiet(path string) error {
	if path == "" {
		return nil
	}
	return os.RemoveAll(path)
}

// EnsureDir ensures a directory exists, creating it if necessary
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}
