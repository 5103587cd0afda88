package blobstore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
)

// FileStore reads blobs from the local filesystem. The key "-" reads Stdin.
type FileStore struct {
	Stdin io.Reader
}

func NewFileStore() *FileStore {
	return &FileStore{Stdin: os.Stdin}
}

func (s *FileStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if key == "-" {
		return io.NopCloser(s.Stdin), nil
	}
	f, err := os.Open(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
