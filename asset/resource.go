package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Resource wraps a streamable host scene file, either local or fetched
// over http(s). Readers use it to follow includes (mtllib, call) relative
// to the file that references them.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Path returns the path or URL of this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Dir returns the directory that relative references of this resource are
// resolved against.
func (r *Resource) Dir() string {
	if r.IsRemote() {
		u := *r.url
		u.Path = pathDir(u.Path)
		return u.String()
	}
	return filepath.Dir(r.url.Path)
}

// IsRemote returns true if the resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// NewResource opens a resource. If relTo is specified and pathToResource
// does not define a scheme, the new resource path is generated by joining
// the directory of relTo with pathToResource.
//
// The caller must close the returned resource.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	target, err := resolveURL(pathToResource, relTo)
	if err != nil {
		return nil, err
	}

	var reader io.ReadCloser
	switch target.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(target.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := http.Get(target.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", target.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", target.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", target.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        target,
	}, nil
}

// NewResourceFromStream wraps a reader into a resource with the given name.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	u, err := url.Parse(name)
	if err != nil {
		u = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        u,
	}
}

func resolveURL(pathToResource string, relTo *Resource) (*url.URL, error) {
	target, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, err
	}

	if target.Scheme != "" || relTo == nil || filepath.IsAbs(target.Path) {
		return target, nil
	}

	relPath := target.Path
	base, _ := url.Parse(relTo.url.String())
	if base.Scheme == "" {
		prefix, err := filepath.Abs(relTo.url.Path)
		if err != nil {
			return nil, fmt.Errorf("resource: could not detect abs path for %s; %s", relTo.url.String(), err.Error())
		}
		base.Path = filepath.Join(filepath.Dir(prefix), relPath)
		return base, nil
	}

	base.Path = pathDir(base.Path) + "/" + relPath
	return base, nil
}

func pathDir(p string) string {
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[:idx]
	}
	return ""
}
