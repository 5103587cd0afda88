// Package blobstore opens import documents from local files, standard input,
// memory or S3-compatible object storage.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

var (
	ErrBlobNotFound      = errors.New("blob not found")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrUnsupportedScheme = errors.New("unsupported source scheme")
)

// MaxFileSize bounds a single document (256 MB).
const MaxFileSize = 256 * 1024 * 1024

// Store opens a named blob for reading.
type Store interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Resolver maps a source string to the store that serves it:
//
//	path/to/file.json, file:///abs/path  local file
//	-                                    standard input
//	s3://bucket/key                      S3 object
//	mem://key                            in-memory store (tests)
type Resolver struct {
	Local  Store
	S3     func(ctx context.Context, bucket string) (Store, error)
	Memory Store
}

// Open resolves source and returns a reader limited to MaxFileSize.
func (r *Resolver) Open(ctx context.Context, source string) (io.ReadCloser, error) {
	store, key, err := r.resolve(ctx, source)
	if err != nil {
		return nil, err
	}
	rc, err := store.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}
	return limitReadCloser(rc, MaxFileSize), nil
}

func (r *Resolver) resolve(ctx context.Context, source string) (Store, string, error) {
	if source == "-" || !strings.Contains(source, "://") {
		if r.Local == nil {
			return nil, "", fmt.Errorf("%w: local files", ErrUnsupportedScheme)
		}
		return r.Local, source, nil
	}

	u, err := url.Parse(source)
	if err != nil {
		return nil, "", fmt.Errorf("parse source: %w", err)
	}
	switch u.Scheme {
	case "file":
		if r.Local == nil {
			return nil, "", fmt.Errorf("%w: file", ErrUnsupportedScheme)
		}
		return r.Local, u.Path, nil
	case "s3":
		if r.S3 == nil {
			return nil, "", fmt.Errorf("%w: s3", ErrUnsupportedScheme)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, "", fmt.Errorf("s3 source must be s3://bucket/key, got %q", source)
		}
		store, err := r.S3(ctx, u.Host)
		if err != nil {
			return nil, "", err
		}
		return store, key, nil
	case "mem":
		if r.Memory == nil {
			return nil, "", fmt.Errorf("%w: mem", ErrUnsupportedScheme)
		}
		return r.Memory, u.Host + u.Path, nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

type limitedReadCloser struct {
	r io.Reader
	io.Closer
	remaining int64
}

func limitReadCloser(rc io.ReadCloser, n int64) io.ReadCloser {
	return &limitedReadCloser{r: rc, Closer: rc, remaining: n}
}

func (l *limitedReadCloser) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// One extra byte distinguishes an exact-size document from an oversized one.
		var probe [1]byte
		if n, _ := l.r.Read(probe[:]); n > 0 {
			return 0, ErrFileTooLarge
		}
		return 0, io.EOF
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
