package dimensions

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestReader_FromFile(t *testing.T) {
	dir := t.TempDir()
	reader := NewReader()

	tests := []struct {
		name string
		file string
		data []byte
		want Dimensions
	}{
		{name: "png", file: "a.png", data: pngBytes(t, 640, 480), want: Dimensions{640, 480}},
		{name: "jpeg", file: "b.jpg", data: jpegBytes(t, 33, 1025), want: Dimensions{33, 1025}},
		{name: "gif", file: "c.gif", data: gifBytes(t, 1, 1), want: Dimensions{1, 1}},
		{name: "misleading extension", file: "d.jpg", data: pngBytes(t, 10, 20), want: Dimensions{10, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.data)

			got, err := reader.FromFile(path)
			if err != nil {
				t.Fatalf("FromFile() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FromFile() = %v, want %v", got, tt.want)
			}

			// file:// URLs resolve to the same file
			got, err = reader.Read(context.Background(), "file://"+path)
			if err != nil {
				t.Fatalf("Read(file://) error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Read(file://) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReader_FromFile_Errors(t *testing.T) {
	dir := t.TempDir()
	reader := NewReader()

	if _, err := reader.FromFile(dir + "/missing.png"); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeFile(t, dir, "notes.png", []byte("not an image"))
	if _, err := reader.FromFile(path); !errors.Is(err, ErrDecode) {
		t.Errorf("FromFile(text) error = %v, want ErrDecode", err)
	}
}

func TestReader_FromDataURL(t *testing.T) {
	reader := NewReader()
	payload := base64.StdEncoding.EncodeToString(pngBytes(t, 300, 300))

	got, err := reader.FromDataURL("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("FromDataURL() error: %v", err)
	}
	if got != (Dimensions{300, 300}) {
		t.Errorf("FromDataURL() = %v, want 300x300", got)
	}

	invalid := []string{
		"image/png;base64," + payload,
		"data:image/png;base64" + payload,
		"data:image/png," + payload,
		"data:image/png;base64,@@@",
	}
	for _, in := range invalid {
		if _, err := reader.FromDataURL(in); !errors.Is(err, ErrInvalidDataURL) {
			t.Errorf("FromDataURL(%.30q) error = %v, want ErrInvalidDataURL", in, err)
		}
	}
}

type recordingObserver struct {
	hits, misses int
	errors       []string
}

func (o *recordingObserver) ObserveCacheLookup(hit bool) {
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

func (o *recordingObserver) ObserveCacheError(op string) {
	o.errors = append(o.errors, op)
}

func TestReader_FromURL_UsesCache(t *testing.T) {
	var requests atomic.Int32
	image := jpegBytes(t, 1920, 1080)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("User-Agent") != "imagetoken-test" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(image)
	}))
	defer srv.Close()

	cache := NewMemoryCache()
	observer := &recordingObserver{}
	reader := NewReader(
		WithCache(cache),
		WithObserver(observer),
		WithHTTPClient(srv.Client()),
		WithUserAgent("imagetoken-test"),
	)
	ctx := context.Background()
	url := srv.URL + "/photo.jpg"

	for i := 0; i < 3; i++ {
		got, err := reader.Read(ctx, url)
		if err != nil {
			t.Fatalf("Read() #%d error: %v", i, err)
		}
		if got != (Dimensions{1920, 1080}) {
			t.Fatalf("Read() #%d = %v, want 1920x1080", i, got)
		}
	}

	if n := requests.Load(); n != 1 {
		t.Errorf("server received %d requests, want 1", n)
	}
	if observer.misses != 1 || observer.hits != 2 {
		t.Errorf("observer hits/misses = %d/%d, want 2/1", observer.hits, observer.misses)
	}
	if cached, ok, _ := cache.Get(ctx, url); !ok || cached != (Dimensions{1920, 1080}) {
		t.Errorf("cache entry = %v, %v", cached, ok)
	}

	// Deleting the entry forces a refetch
	if err := cache.Delete(ctx, url); err != nil {
		t.Fatal(err)
	}
	if _, err := reader.FromURL(ctx, url); err != nil {
		t.Fatal(err)
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("server received %d requests after delete, want 2", n)
	}
}

func TestReader_FromURL_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			http.NotFound(w, r)
		case "/large.png":
			w.Write(pngBytes(t, 64, 64))
		default:
			w.Write([]byte("<html>not an image</html>"))
		}
	}))
	defer srv.Close()

	cache := NewMemoryCache()
	reader := NewReader(WithCache(cache), WithHTTPClient(srv.Client()))
	ctx := context.Background()

	if _, err := reader.FromURL(ctx, srv.URL+"/missing.png"); !errors.Is(err, ErrFetch) {
		t.Errorf("404 error = %v, want ErrFetch", err)
	}
	if _, err := reader.FromURL(ctx, srv.URL+"/page.html"); !errors.Is(err, ErrDecode) {
		t.Errorf("html error = %v, want ErrDecode", err)
	}
	if n, _ := cache.Len(ctx); n != 0 {
		t.Errorf("failed fetches were cached: %d entries", n)
	}

	tiny := NewReader(WithHTTPClient(srv.Client()), WithMaxBytes(8))
	if _, err := tiny.FromURL(ctx, srv.URL+"/large.png"); !errors.Is(err, ErrDecode) {
		t.Errorf("truncated body error = %v, want ErrDecode", err)
	}
}

type failingCache struct{ *MemoryCache }

func (*failingCache) Get(context.Context, string) (Dimensions, bool, error) {
	return Dimensions{}, false, errors.New("disk I/O error")
}

func (*failingCache) Put(context.Context, string, Dimensions) error {
	return errors.New("disk I/O error")
}

func TestReader_FromURL_CacheFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 20, 10))
	}))
	defer srv.Close()

	observer := &recordingObserver{}
	reader := NewReader(WithCache(&failingCache{NewMemoryCache()}), WithObserver(observer), WithHTTPClient(srv.Client()))

	got, err := reader.FromURL(context.Background(), srv.URL+"/a.png")
	if err != nil {
		t.Fatalf("FromURL() error: %v", err)
	}
	if got != (Dimensions{20, 10}) {
		t.Errorf("FromURL() = %v, want 20x10", got)
	}
	if len(observer.errors) != 2 || observer.errors[0] != "get" || observer.errors[1] != "put" {
		t.Errorf("observed cache errors = %v, want [get put]", observer.errors)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// countingReader yields zeros forever and counts what was read.
type countingReader struct{ n atomic.Int64 }

func (c *countingReader) Read(p []byte) (int, error) {
	clear(p)
	c.n.Add(int64(len(p)))
	return len(p), nil
}

func TestReader_FromURL_ReadsOnlyHeader(t *testing.T) {
	tail := &countingReader{}
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"image/png"}},
			Body:       io.NopCloser(io.MultiReader(bytes.NewReader(pngBytes(t, 1200, 900)), tail)),
			Request:    r,
		}, nil
	})}

	reader := NewReader(WithHTTPClient(client), WithMaxBytes(64<<20))
	got, err := reader.FromURL(context.Background(), "https://example.com/huge.png")
	if err != nil {
		t.Fatalf("FromURL() error: %v", err)
	}
	if got != (Dimensions{1200, 900}) {
		t.Errorf("FromURL() = %v, want 1200x900", got)
	}
	if n := tail.n.Load(); n > 1<<20 {
		t.Errorf("read %d bytes past the image, want the header only", n)
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/a.png", true},
		{"http://localhost:8080/a.png", true},
		{"ftp://example.com/a.png", false},
		{"file:///tmp/a.png", false},
		{"images/a.png", false},
		{"https://", false},
		{"data:image/png;base64,AAAA", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsAllowedExtension(t *testing.T) {
	exts := []string{".jpg", ".jpeg", ".png"}

	tests := []struct {
		path string
		want bool
	}{
		{"a.jpg", true},
		{"dir/b.PNG", true},
		{"c.JpEg", true},
		{"d.gif", false},
		{"noext", false},
		{"archive.png.zip", false},
	}
	for _, tt := range tests {
		if got := IsAllowedExtension(tt.path, exts); got != tt.want {
			t.Errorf("IsAllowedExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}

	if err := CheckExtension("d.gif", exts); !errors.Is(err, ErrUnsupportedExtension) {
		t.Errorf("CheckExtension(d.gif) = %v, want ErrUnsupportedExtension", err)
	}
}
