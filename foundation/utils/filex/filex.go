// File: filex.go
// Title: Path and File Utilities
// Description: Slash-separated path helpers for media file names (name, stem,
//              extension, extension substitution, directory relocation) plus
//              a few file system checks.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive file utilities
// - 2026-10-19 v0.2.0: Reduced to path helpers for media file names

package filex

import (
	"os"
	"path/filepath"
	"strings"
)

// Exists reports whether path exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsFile reports whether path exists and is a regular file
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path exists and is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureDir creates dir and its parents if they do not exist
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Split separates path into its directory and final name. Trailing slashes
// are ignored. The directory keeps a lone leading "/" for root entries.
func Split(path string) (dir, name string) {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return path, ""
	}

	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return "", trimmed
	}

	dir = strings.TrimRight(trimmed[:idx], "/")
	if dir == "" {
		dir = "/"
	}
	return dir, trimmed[idx+1:]
}

// Name returns the final path element, or "" when there is none
func Name(path string) string {
	_, name := Split(path)
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// Stem returns the final path element without its extension. A leading
// dot does not start an extension, so ".mp4" is its own stem.
func Stem(path string) string {
	name := Name(path)
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name
	}
	return name[:idx]
}

// Ext returns the extension of the final path element without the dot.
// Names without a dot, or whose only dot is the leading one, have none.
func Ext(path string) string {
	name := Name(path)
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return ""
	}
	return name[idx+1:]
}

// ReplaceExt returns path with its extension replaced by ext (given without
// a dot). The second result is false when path has no stem to keep.
func ReplaceExt(path, ext string) (string, bool) {
	stem := Stem(path)
	if stem == "" {
		return "", false
	}

	dir, _ := Split(path)
	file := stem + "." + ext
	switch dir {
	case "":
		return file, true
	case "/":
		return "/" + file, true
	default:
		return dir + "/" + file, true
	}
}

// Relocate places the final element of path inside dir. The second result
// is false when path has no final element.
func Relocate(dir, path string) (string, bool) {
	name := Name(path)
	if name == "" {
		return "", false
	}
	if dir == "" {
		return name, true
	}
	return filepath.Join(dir, name), true
}
