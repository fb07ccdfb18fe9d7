package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

func openHTTP(ctx context.Context, url string, opts Options, sink Sink) (Stream, error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		cancel()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	c := closerFunc(func() error {
		cancel()
		return resp.Body.Close()
	})

	var r io.Reader = resp.Body
	if opts.Charset == Auto {
		if r, err = decodeAuto(r, resp.Header.Get("Content-Type")); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("sniff %s: %w", url, err)
		}
	}

	return newPump(r, c, opts.BufSize, sink).start(), nil
}
