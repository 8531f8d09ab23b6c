package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/coverleaf/go-portal/pkg/schema"
)

// SourceKind tags where a document comes from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source identifies where an OpenAPI document lives.
type Source interface {
	Location() string
	Kind() SourceKind
}

// fileSource identifies on-disk OpenAPI documents.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// urlSource references an HTTP/HTTPS endpoint.
type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("openapi: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("openapi: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// LoaderOptions configures how FormsFromSource resolves a Source. Loading is
// offline by default; remote sources need an explicit HTTP client.
type LoaderOptions struct {
	// FileSystem backs fs sources; nil disables them.
	FileSystem fs.FS

	// HTTPClient fetches url sources; nil disables them.
	HTTPClient *http.Client

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration
}

// LoaderOption mutates LoaderOptions prior to loading.
type LoaderOption func(*LoaderOptions)

// WithFileSystem enables fs sources backed by fsys.
func WithFileSystem(fsys fs.FS) LoaderOption {
	return func(o *LoaderOptions) {
		o.FileSystem = fsys
	}
}

// WithHTTPClient enables url sources using the given client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(o *LoaderOptions) {
		o.HTTPClient = client
	}
}

// WithRequestTimeout caps remote fetches when an HTTP client is configured.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(o *LoaderOptions) {
		o.RequestTimeout = timeout
	}
}

// FormsFromSource loads an OpenAPI document from src and extracts the portal
// forms it declares.
func FormsFromSource(ctx context.Context, src Source, options ...LoaderOption) ([]schema.Form, error) {
	if src == nil {
		return nil, errors.New("openapi: source is required")
	}

	var opts LoaderOptions
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	data, err := readSource(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	return Forms(ctx, data)
}

func readSource(ctx context.Context, src Source, opts LoaderOptions) ([]byte, error) {
	switch src.Kind() {
	case SourceKindFile:
		return os.ReadFile(src.Location())
	case SourceKindFS:
		if opts.FileSystem == nil {
			return nil, errors.New("openapi: fs source requires a file system")
		}
		return fs.ReadFile(opts.FileSystem, src.Location())
	case SourceKindURL:
		return readHTTP(ctx, src.Location(), opts)
	default:
		return nil, fmt.Errorf("openapi: unsupported source kind %q", src.Kind())
	}
}

func readHTTP(ctx context.Context, rawURL string, opts LoaderOptions) ([]byte, error) {
	if opts.HTTPClient == nil {
		return nil, errors.New("openapi: url source requires an http client")
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if opts.RequestTimeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, opts.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("openapi: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
