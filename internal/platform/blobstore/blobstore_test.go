package blobstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestResolver_LocalPathAndFileURI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.json")
	if err := os.WriteFile(path, []byte(`{"entry":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	r := &Resolver{Local: NewFileStore()}

	for _, src := range []string{path, "file://" + path} {
		rc, err := r.Open(context.Background(), src)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", src, err)
		}
		if got := readAll(t, rc); got != `{"entry":[]}` {
			t.Errorf("%s: unexpected content %q", src, got)
		}
	}
}

func TestResolver_Stdin(t *testing.T) {
	r := &Resolver{Local: &FileStore{Stdin: strings.NewReader("from stdin")}}
	rc, err := r.Open(context.Background(), "-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readAll(t, rc); got != "from stdin" {
		t.Errorf("expected stdin content, got %q", got)
	}
}

func TestResolver_MissingFile(t *testing.T) {
	r := &Resolver{Local: NewFileStore()}
	_, err := r.Open(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestResolver_Memory(t *testing.T) {
	mem := NewInMemoryStore()
	mem.Put("bundles/a.json", []byte("A"))
	r := &Resolver{Memory: mem}

	rc, err := r.Open(context.Background(), "mem://bundles/a.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readAll(t, rc); got != "A" {
		t.Errorf("expected A, got %q", got)
	}
	if _, err := r.Open(context.Background(), "mem://bundles/b.json"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestResolver_UnsupportedScheme(t *testing.T) {
	r := &Resolver{Local: NewFileStore()}
	for _, src := range []string{"ftp://host/file", "s3://bucket/key", "mem://x"} {
		if _, err := r.Open(context.Background(), src); !errors.Is(err, ErrUnsupportedScheme) {
			t.Errorf("%s: expected ErrUnsupportedScheme, got %v", src, err)
		}
	}
}

func TestResolver_S3RequiresBucketAndKey(t *testing.T) {
	called := false
	r := &Resolver{S3: func(context.Context, string) (Store, error) {
		called = true
		return NewInMemoryStore(), nil
	}}
	for _, src := range []string{"s3://bucket", "s3://bucket/", "s3:///key"} {
		if _, err := r.Open(context.Background(), src); err == nil {
			t.Errorf("%s: expected error", src)
		}
	}
	if called {
		t.Error("store factory should not run for invalid s3 sources")
	}
}

func TestResolver_S3RoutesBucketAndKey(t *testing.T) {
	mem := NewInMemoryStore()
	mem.Put("exports/2024/bundle.json", []byte("S3"))
	var gotBucket string
	r := &Resolver{S3: func(_ context.Context, bucket string) (Store, error) {
		gotBucket = bucket
		return mem, nil
	}}

	rc, err := r.Open(context.Background(), "s3://genomics/exports/2024/bundle.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readAll(t, rc); got != "S3" {
		t.Errorf("expected S3, got %q", got)
	}
	if gotBucket != "genomics" {
		t.Errorf("expected bucket genomics, got %q", gotBucket)
	}
}

func TestLimitReadCloser(t *testing.T) {
	rc := limitReadCloser(io.NopCloser(strings.NewReader("12345")), 5)
	if got := readAll(t, rc); got != "12345" {
		t.Errorf("exact-size document should pass, got %q", got)
	}

	rc = limitReadCloser(io.NopCloser(strings.NewReader("123456")), 5)
	_, err := io.ReadAll(rc)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestS3Store_Open(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/genomics/bundle.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"entry":[]}`))
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`))
		}
	}))
	defer srv.Close()

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))

	store, err := NewS3Store(context.Background(), S3Config{Endpoint: srv.URL, PathStyle: true}, "genomics")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	rc, err := store.Open(context.Background(), "bundle.json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := readAll(t, rc); got != `{"entry":[]}` {
		t.Errorf("unexpected content %q", got)
	}

	if _, err := store.Open(context.Background(), "missing.json"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), S3Config{}, ""); err == nil {
		t.Error("expected error for empty bucket")
	}
}
