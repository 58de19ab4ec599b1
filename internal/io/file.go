// Package ioutils provides file system utilities for goprocat.
//
// This package contains functions for:
//   - Directory validation
//   - Path identity checks
//   - File writing
//   - Carrying file times over to derived files
package ioutils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/djherbis/times"
)

// CheckDir returns an error unless path exists and is a directory.
// It never creates the directory.
//
// Example:
//
//	if err := CheckDir("/media/out"); err != nil {
//	    return err
//	}
func CheckDir(path string) error {
	if path == "" {
		return fmt.Errorf("directory not specified")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// SameFile reports whether a and b name the same file or directory, either
// by absolute path or, when both exist, by identity on disk.
func SameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}

	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Example:
//
//	err := WriteFile("/out/GX010123.gpx", xml)
func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

// CopyTimes sets the access and modification times of dst to those of src.
func CopyTimes(src, dst string) error {
	ts, err := times.Stat(src)
	if err != nil {
		return err
	}
	return os.Chtimes(dst, ts.AccessTime(), ts.ModTime())
}
