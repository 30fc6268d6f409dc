package upload

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/client"
	"github.com/planit-ai/planit/pkg/domain"
)

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

type storageServer struct {
	mu    sync.Mutex
	puts  map[string]int
	types map[string]string
	auth  []string
}

func newStorageServer(t *testing.T) (*storageServer, *httptest.Server) {
	s := &storageServer{puts: map[string]int{}, types: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.puts[r.URL.Path] = len(body)
		s.types[r.URL.Path] = r.Header.Get("Content-Type")
		s.auth = append(s.auth, r.Header.Get("Authorization"))
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return s, srv
}

func presignTo(base string) Presigner {
	n := 0
	return func(_ context.Context, ext, contentType string) (*domain.PresignedUpload, error) {
		n++
		key := "posts/img-" + string(rune('0'+n)) + "." + ext
		return &domain.PresignedUpload{UploadURL: base + "/" + key, Key: key}, nil
	}
}

func TestFileUploads(t *testing.T) {
	store, srv := newStorageServer(t)
	c := client.New(srv.URL, nil)
	path := writeFile(t, "beach.PNG", 128)

	key, err := File(context.Background(), validate.New(), c, presignTo(srv.URL), path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if key != "posts/img-1.png" {
		t.Errorf("key = %q", key)
	}
	if store.puts["/posts/img-1.png"] != 128 {
		t.Errorf("uploaded %d bytes, want 128", store.puts["/posts/img-1.png"])
	}
	if store.types["/posts/img-1.png"] != "image/png" {
		t.Errorf("content type = %q", store.types["/posts/img-1.png"])
	}
}

func TestFileRejectsBadInput(t *testing.T) {
	_, srv := newStorageServer(t)
	c := client.New(srv.URL, nil)
	v := validate.New()
	presign := func(context.Context, string, string) (*domain.PresignedUpload, error) {
		t.Fatal("presign must not be called for invalid files")
		return nil, nil
	}

	tests := []struct {
		name string
		path string
	}{
		{"wrong extension", writeFile(t, "notes.gif", 10)},
		{"empty file", writeFile(t, "empty.jpg", 0)},
		{"too large", writeFile(t, "huge.jpg", validate.MaxImageBytes+1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := File(context.Background(), v, c, presign, tc.path); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := File(context.Background(), v, c, presign, filepath.Join(t.TempDir(), "missing.jpg")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFilesDiscardsOnFailure(t *testing.T) {
	_, srv := newStorageServer(t)
	c := client.New(srv.URL, nil)
	good := writeFile(t, "a.jpg", 10)
	bad := writeFile(t, "b.bmp", 10)

	var discarded []string
	discard := func(_ context.Context, key string) error {
		discarded = append(discarded, key)
		return errors.New("ignored")
	}

	_, err := Files(context.Background(), validate.New(), c, presignTo(srv.URL), discard, []string{good, bad})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "b.bmp") {
		t.Errorf("error should name the failing file: %v", err)
	}
	if len(discarded) != 1 || discarded[0] != "posts/img-1.jpg" {
		t.Errorf("discarded = %v", discarded)
	}
}

func TestFilesNoBearerToStorage(t *testing.T) {
	store, srv := newStorageServer(t)
	c := client.New(srv.URL, staticSession("tok"))
	paths := []string{writeFile(t, "a.jpg", 3), writeFile(t, "b.webp", 4)}

	keys, err := Files(context.Background(), validate.New(), c, presignTo(srv.URL), nil, paths)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("keys = %v", keys)
	}
	for _, a := range store.auth {
		if a != "" {
			t.Errorf("storage request carried Authorization %q", a)
		}
	}
}

type staticSession string

func (s staticSession) AccessToken() string   { return string(s) }
func (staticSession) ClearAuthIf(string) bool { return false }
