// Package utils provides internal utility functions used throughout the logging pipeline.
//
// This package contains helpers for log directory handling and file-name
// validation. These utilities are for internal use by the output package and
// are not part of the public API.
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hyp3rd/ewrap"
)

// NormalizeDir returns dir with a trailing path separator. A separator that
// is already present is kept verbatim, so "log/" stays "log/".
func NormalizeDir(dir string) string {
	if dir == "" {
		return dir
	}

	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir
	}

	return dir + string(os.PathSeparator)
}

// ValidateFileName checks that name can be used as a log file base name
// inside the log directory. It rejects:
// - empty names
// - names containing a path separator
// - directory traversal sequences (..)
func ValidateFileName(name string) error {
	if name == "" {
		return ewrap.New("file name cannot be empty")
	}

	if strings.ContainsAny(name, `/\`) {
		return ewrap.New("file name contains a path separator").
			WithMetadata("name", name)
	}

	if strings.Contains(name, "..") {
		return ewrap.New("file name contains directory traversal sequence").
			WithMetadata("name", name)
	}

	return nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string, perm os.FileMode) error {
	if dir == "" {
		return nil
	}

	err := os.MkdirAll(filepath.Clean(dir), perm)
	if err != nil {
		return ewrap.Wrapf(err, "creating log directory").
			WithMetadata("path", dir)
	}

	return nil
}
