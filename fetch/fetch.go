// Package fetch stages remote entity set archives into local scratch
// directories.
//
// A path is either an HTTP(S) URL or an s3:// URI. The archive is downloaded
// into a scoped temporary directory, extracted in place, and the directory is
// handed back together with a release function that tears it down.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Options configure a staging operation.
type Options struct {
	// Profile selects the credential source for s3 paths.
	Profile Profile
	// Resolver probes and loads credentials. Defaults to the AWS shared
	// config chain.
	Resolver CredentialResolver
	// HTTPClient is used for URL downloads. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// IsURL reports whether path is an HTTP(S) URL.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// IsS3 reports whether path is an object-storage URI.
func IsS3(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// IsRemote reports whether path needs staging before it can be read.
func IsRemote(path string) bool {
	return IsURL(path) || IsS3(path)
}

// Stage downloads the archive at rawPath into a fresh temporary directory
// and extracts it there. It returns the directory and a release function
// that removes it; release is only returned on success, and on failure the
// directory is already cleaned up.
func Stage(ctx context.Context, rawPath string, o Options) (dir string, release func(), err error) {
	if !IsRemote(rawPath) {
		return "", nil, fmt.Errorf("not a remote path: %q", rawPath)
	}

	tmp, err := os.MkdirTemp("", "entityset-")
	if err != nil {
		return "", nil, err
	}
	release = func() { _ = os.RemoveAll(tmp) }
	defer func() {
		if err != nil {
			release()
		}
	}()

	u, err := url.Parse(rawPath)
	if err != nil {
		return "", nil, fmt.Errorf("parse %q: %w", rawPath, err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "entityset.tar"
	}
	archive := filepath.Join(tmp, name)

	if IsURL(rawPath) {
		err = downloadHTTP(ctx, o.HTTPClient, rawPath, archive)
	} else {
		err = downloadS3(ctx, o, u.Host, strings.TrimPrefix(u.Path, "/"), archive)
	}
	if err != nil {
		return "", nil, err
	}

	if err = extractTar(archive, tmp); err != nil {
		return "", nil, err
	}
	return tmp, release, nil
}
