package extract

import (
	"io/fs"
	"os"
)

const (
	dirMode  fs.FileMode = 0o755
	fileMode fs.FileMode = 0o644
)

// WriteFS is the filesystem surface the materializer writes through. OSFS is
// used in production; tests substitute an in-memory filesystem.
type WriteFS interface {
	MkdirAll(path string, perm fs.FileMode) error
	WriteFile(path string, data []byte, perm fs.FileMode) error
	Stat(name string) (fs.FileInfo, error)
}

// OSFS writes through the host filesystem.
type OSFS struct{}

func (OSFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OSFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}
