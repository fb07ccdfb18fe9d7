package source

import (
	"fmt"
	"io"
	"os"
)

func openFile(name string, opts Options, sink Sink) (Stream, error) {
	var (
		f   io.ReadCloser
		err error
	)
	if opts.FS != nil {
		if opts.Follow {
			return nil, fmt.Errorf("follow %s: %w", name, ErrUnsupported)
		}
		f, err = opts.FS.Open(name)
	} else {
		f, err = os.Open(name)
	}
	if err != nil {
		return nil, err
	}

	var (
		r    io.Reader = f
		c              = closers{f}
		wait func(<-chan struct{}) error
	)

	if opts.Follow {
		fl, err := newFollower(name)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		c = append(c, fl)
		wait = fl.wait
	} else if opts.Charset == Auto {
		// Detection wraps the file in readers that stick at EOF, so it is not
		// combined with follow mode.
		if r, err = decodeAuto(r, ""); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	p := newPump(r, c, opts.BufSize, sink)
	p.wait = wait
	return p.start(), nil
}
