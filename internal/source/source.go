// Package source provides the byte-chunk streams a line reader consumes: local
// files (optionally followed for appended data) and HTTP(S) response bodies.
//
// A Stream never pushes more than it was asked for. Each Resume call is a
// demand for one chunk, which is delivered to the Sink from the stream's own
// goroutine. End and Error are terminal.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// Auto as Options.Charset asks the stream to detect and convert the charset.
const Auto = "auto"

const defaultBufSize = 64 * 1024

var ErrUnsupported = errors.New("unsupported")

var urlRE = regexp.MustCompile(`(?i)^(https?)://`)

type Sink interface {
	Chunk(p []byte)
	End()
	Error(err error)
}

type Stream interface {
	// Resume asks for the next chunk. Calls made while a demand is
	// outstanding are merged into it.
	Resume()
	// Close stops delivery and releases the underlying resource.
	Close() error
}

type Options struct {
	BufSize int
	// Follow keeps a local file open at EOF and waits for appended data.
	Follow bool
	// Charset is either empty (bytes pass through) or Auto.
	Charset string
	// FS, when set, is used instead of the OS file system for local paths.
	FS fs.FS
	// Client is used for HTTP locators. Defaults to http.DefaultClient.
	Client *http.Client
}

// StatusError is returned when an HTTP server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// IsURL reports whether locator is an http or https URL. The scheme is matched
// case-insensitively.
func IsURL(locator string) bool {
	return urlRE.MatchString(locator)
}

// Normalize returns the canonical form of a local path. URLs are returned as is.
func Normalize(locator string, fsys fs.FS) string {
	if IsURL(locator) {
		return locator
	}
	if fsys != nil {
		return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(locator)), "/")
	}
	return filepath.Clean(locator)
}

// Open opens locator and returns a stream that waits for its first Resume.
// For HTTP locators Open blocks until response headers arrive or ctx is done.
func Open(ctx context.Context, locator string, opts Options, sink Sink) (Stream, error) {
	if opts.BufSize <= 0 {
		opts.BufSize = defaultBufSize
	}
	if IsURL(locator) {
		if opts.Follow {
			return nil, fmt.Errorf("follow %s: %w", locator, ErrUnsupported)
		}
		return openHTTP(ctx, locator, opts, sink)
	}
	return openFile(Normalize(locator, opts.FS), opts, sink)
}

type closers []io.Closer

func (c closers) Close() (err error) {
	for _, x := range c {
		if cerr := x.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
