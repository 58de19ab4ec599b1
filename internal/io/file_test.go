package ioutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "directory", path: dir},
		{name: "file", path: file, wantErr: true},
		{name: "missing", path: filepath.Join(dir, "missing"), wantErr: true},
		{name: "empty", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDir(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckDir(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestCopyTimes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "GX010123.MP4")
	dst := filepath.Join(dir, "out.MP4")
	if err := WriteFile(src, []byte("src")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(dst, []byte("dst")); err != nil {
		t.Fatal(err)
	}

	recorded := time.Date(2023, 5, 15, 10, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, recorded, recorded); err != nil {
		t.Fatal(err)
	}

	if err := CopyTimes(src, dst); err != nil {
		t.Fatalf("CopyTimes() error: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(recorded) {
		t.Errorf("ModTime = %v, want %v", info.ModTime(), recorded)
	}
}

func TestSameFile(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	link := filepath.Join(other, "link")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "identical", a: dir, b: dir, want: true},
		{name: "trailing separator", a: dir, b: dir + string(filepath.Separator), want: true},
		{name: "dot segments", a: dir, b: filepath.Join(dir, "sub", ".."), want: true},
		{name: "symlink", a: dir, b: link, want: true},
		{name: "different", a: dir, b: other},
		{name: "missing", a: dir, b: filepath.Join(dir, "missing")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameFile(tt.a, tt.b); got != tt.want {
				t.Errorf("SameFile(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
