package loaders

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Resource is a readable asset backed by a local file or an http(s) URL
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Path returns the location the resource was opened from
func (r *Resource) Path() string {
	return r.url.String()
}

// IsRemote reports whether the resource is streamed over http/https
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// OpenResource opens a local path or an http(s) URL. The caller must close it.
func OpenResource(location string) (*Resource, error) {
	u, err := url.Parse(strings.ReplaceAll(location, `\`, `/`))
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", location, err)
	}

	var reader io.ReadCloser
	switch u.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(u.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch %q: %w", u.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch %q: status %d", u.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme %q", u.Scheme)
	}

	return &Resource{ReadCloser: reader, url: u}, nil
}

// NewResourceFromStream wraps an in-memory reader as a named resource
func NewResourceFromStream(name string, source io.Reader) *Resource {
	u, err := url.Parse(name)
	if err != nil {
		u = &url.URL{Path: name}
	}
	return &Resource{ReadCloser: io.NopCloser(source), url: u}
}
