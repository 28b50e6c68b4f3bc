// Package loader fetches raw API-description documents from files, fs.FS
// entries, or URLs. It never interprets the payload; parsing belongs to the
// builder stage.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	pkgspec "github.com/goliatone/sdkgen/pkg/spec"
)

// Loader resolves a spec.Source to its raw bytes. URL sources are refused
// unless the options opted in to HTTP fetching.
type Loader struct {
	fs   fs.FS
	http *http.Client
}

var _ pkgspec.Loader = (*Loader)(nil)

// New builds a Loader from resolved options. An explicit HTTPClient enables
// URL sources on its own; otherwise AllowHTTPFallback gates a default client.
// The client is copied so a timeout can be applied without mutating the
// caller's instance.
func New(options pkgspec.LoaderOptions) *Loader {
	l := &Loader{fs: options.FileSystem}

	if options.HTTPClient != nil {
		clone := *options.HTTPClient
		if clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		l.http = &clone
	} else if options.AllowHTTPFallback {
		l.http = &http.Client{Timeout: options.RequestTimeout}
	}

	return l
}

// Load reads the source's payload and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src pkgspec.Source) (pkgspec.Document, error) {
	if src == nil {
		return pkgspec.Document{}, errors.New("spec loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return pkgspec.Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case pkgspec.SourceKindFile:
		data, err = l.readFile(src.Location())
	case pkgspec.SourceKindFS:
		data, err = l.readFS(src.Location())
	case pkgspec.SourceKindURL:
		data, err = l.fetch(ctx, src.Location())
	default:
		err = fmt.Errorf("spec loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgspec.Document{}, err
	}

	return pkgspec.NewDocument(src, data)
}

func (l *Loader) readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spec loader: read file %q: %w", path, err)
	}
	return data, nil
}

func (l *Loader) readFS(name string) ([]byte, error) {
	if l.fs == nil {
		return nil, errors.New("spec loader: no filesystem configured for fs source")
	}
	data, err := fs.ReadFile(l.fs, name)
	if err != nil {
		return nil, fmt.Errorf("spec loader: read fs entry %q: %w", name, err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if l.http == nil {
		return nil, errors.New("spec loader: http support disabled")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("spec loader: build request %q: %w", rawURL, err)
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spec loader: fetch %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("spec loader: fetch %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("spec loader: read response %q: %w", rawURL, err)
	}
	return data, nil
}
