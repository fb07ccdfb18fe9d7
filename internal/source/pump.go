package source

import (
	"errors"
	"io"
	"sync"
)

var errStopped = errors.New("stopped")

// pump reads one chunk per demand and hands it to the sink.
type pump struct {
	r    io.Reader
	c    io.Closer
	sink Sink
	buf  []byte

	// wait, if set, blocks at EOF until more data may be available. It
	// returns errStopped when the stream should end instead.
	wait func(done <-chan struct{}) error

	demand chan struct{}
	done   chan struct{}
	once   sync.Once
}

func newPump(r io.Reader, c io.Closer, bufSize int, sink Sink) *pump {
	return &pump{
		r:      r,
		c:      c,
		sink:   sink,
		buf:    make([]byte, bufSize),
		demand: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (p *pump) start() *pump {
	go p.run()
	return p
}

func (p *pump) Resume() {
	select {
	case p.demand <- struct{}{}:
	default:
	}
}

func (p *pump) Close() (err error) {
	p.once.Do(func() {
		close(p.done)
		err = p.c.Close()
	})
	return
}

func (p *pump) stopped() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *pump) run() {
	for {
		select {
		case <-p.done:
			return
		case <-p.demand:
		}
		if !p.fill() {
			return
		}
	}
}

// fill delivers a single chunk. It returns false once the stream is over.
func (p *pump) fill() bool {
	for {
		n, err := p.r.Read(p.buf)
		if p.stopped() {
			return false
		}
		if n > 0 {
			p.sink.Chunk(append([]byte(nil), p.buf[:n]...))
		}

		switch {
		case err == io.EOF && p.wait != nil:
			if n > 0 {
				return true
			}
			if werr := p.wait(p.done); werr != nil {
				if p.stopped() {
					return false
				}
				if werr == errStopped {
					p.sink.End()
				} else {
					p.sink.Error(werr)
				}
				return false
			}
		case err == io.EOF:
			p.sink.End()
			return false
		case err != nil:
			p.sink.Error(err)
			return false
		case n > 0:
			return true
		}
	}
}
