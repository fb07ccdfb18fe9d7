// Package linereader reads a local file or an HTTP(S) resource line by line.
//
// Bytes are decoded with a configurable encoding, reassembled into lines
// across chunk boundaries (LF, CRLF and CR all end a line) and handed to the
// registered line handlers one at a time. The consumer controls the pace:
// Pause stops delivery at the next line boundary, Resume continues it and
// Close ends the stream. The source is only asked for more bytes once every
// line of the previous chunk has been delivered.
//
// All handlers run on a single goroutine owned by the reader, in event order.
//
//	r := linereader.New("access.log", &linereader.Options{SkipEmptyLines: true})
//	r.OnLine(func(n int, line string) { fmt.Println(n, line) })
//	r.OnError(func(err error) { log.Println(err); r.Close() })
//	r.Start()
//	r.Wait()
package linereader

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/korneil/linereader/internal/decode"
	"github.com/korneil/linereader/internal/source"
	"github.com/tevino/abool"
)

// Auto as Options.Encoding detects the charset from the response headers or
// the content itself.
const Auto = source.Auto

// Options configures a LineReader. The zero value reads UTF-8 in 64 KiB chunks.
type Options struct {
	// Encoding of the input. Unknown names fall back to utf8.
	Encoding string `yaml:"encoding"`
	// SkipEmptyLines suppresses empty lines. They still consume a line number.
	SkipEmptyLines bool `yaml:"skip_empty_lines"`
	// BufSize is the size of the chunks read from the source.
	BufSize int `yaml:"buf_size"`
	// Follow waits for appended data at the end of a local file.
	Follow bool `yaml:"follow"`

	FS     fs.FS        `yaml:"-"`
	Client *http.Client `yaml:"-"`
}

type (
	// LineHandler receives each line with its 1-based number.
	LineHandler func(n int, line string)
	// EndHandler is called once, after the last line.
	EndHandler func()
	// ErrorHandler receives open, read and decode errors as returned by the source.
	ErrorHandler func(err error)
)

// LineReader splits a file or HTTP(S) stream into lines and delivers them
// one at a time to its handlers.
type LineReader struct {
	id       uuid.UUID
	locator  string
	encoding string
	opts     Options

	loop      *loop
	startOnce sync.Once

	onLine  registry[LineHandler]
	onEnd   registry[EndHandler]
	onError registry[ErrorHandler]

	paused abool.AtomicBool
	ended  abool.AtomicBool
	closed abool.AtomicBool
	lineno atomic.Int64

	mu         sync.Mutex
	stream     source.Stream
	cancelOpen context.CancelFunc

	// owned by the loop
	src       source.Stream
	decoder   decode.Decoder
	split     splitter
	pending   []string
	demanding bool
	draining  bool
	finished  bool

	done chan struct{}
}

// New prepares a reader for locator, a local path or an http(s) URL. No I/O
// happens until Start.
func New(locator string, opts *Options) *LineReader {
	var o Options
	if opts != nil {
		o = *opts
	}

	r := &LineReader{
		id:      uuid.New(),
		locator: source.Normalize(locator, o.FS),
		opts:    o,
		loop:    newLoop(),
		done:    make(chan struct{}),
	}

	if strings.EqualFold(o.Encoding, Auto) {
		// the stream converts to UTF-8 itself
		r.encoding = Auto
		r.decoder = decode.New(decode.Default)
	} else {
		r.encoding = decode.Normalize(o.Encoding)
		r.decoder = decode.New(r.encoding)
	}
	return r
}

func (r *LineReader) ID() uuid.UUID    { return r.id }
func (r *LineReader) Locator() string  { return r.locator }
func (r *LineReader) Encoding() string { return r.encoding }

// Line returns the number of the last line taken from the queue, including
// skipped empty lines.
func (r *LineReader) Line() int { return int(r.lineno.Load()) }

// OnLine registers h and returns a func that unregisters it.
func (r *LineReader) OnLine(h LineHandler) (cancel func()) { return r.onLine.add(h) }

// OnEnd registers h and returns a func that unregisters it.
func (r *LineReader) OnEnd(h EndHandler) (cancel func()) { return r.onEnd.add(h) }

// OnError registers h and returns a func that unregisters it.
func (r *LineReader) OnError(h ErrorHandler) (cancel func()) { return r.onError.add(h) }

// Start opens the source. Handlers registered before Start see every event.
// Calls after the first are no-ops.
func (r *LineReader) Start() {
	r.startOnce.Do(func() {
		r.loop.post(r.open)
		r.loop.start()
	})
}

// Pause stops delivery at the next line boundary. A line event already
// running is not interrupted.
func (r *LineReader) Pause() {
	r.paused.Set()
}

// Resume continues delivery. It does nothing after the end event.
func (r *LineReader) Resume() {
	r.paused.UnSet()
	r.loop.post(r.scheduleDrain)
}

// Close stops reading from the source. Lines already decoded are still
// delivered, followed by the end event. Close starts the reader if Start was
// not called yet.
func (r *LineReader) Close() error {
	r.mu.Lock()
	if r.closed.IsSet() {
		r.mu.Unlock()
		return nil
	}
	r.closed.Set()
	r.ended.Set()
	stream, cancel := r.stream, r.cancelOpen
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	var err error
	if stream != nil {
		err = stream.Close()
	}

	r.loop.post(r.scheduleDrain)
	r.Start()
	return err
}

// Done is closed after the end event has been delivered.
func (r *LineReader) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the end event has been delivered.
func (r *LineReader) Wait() {
	<-r.done
}

func (r *LineReader) open() {
	ctx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	if r.closed.IsSet() {
		r.mu.Unlock()
		cancel()
		return
	}
	r.cancelOpen = cancel
	r.mu.Unlock()

	opts := source.Options{
		BufSize: r.opts.BufSize,
		Follow:  r.opts.Follow,
		FS:      r.opts.FS,
		Client:  r.opts.Client,
	}
	if r.encoding == Auto {
		opts.Charset = source.Auto
	}

	go func() {
		s, err := source.Open(ctx, r.locator, opts, sink{r})

		r.mu.Lock()
		if r.closed.IsSet() {
			// Close already ran and could not see this stream.
			r.mu.Unlock()
			if s != nil {
				_ = s.Close()
			}
			return
		}
		r.stream = s
		r.mu.Unlock()

		r.loop.post(func() { r.attach(s, err) })
	}()
}

func (r *LineReader) attach(s source.Stream, err error) {
	if err != nil {
		r.emitError(err)
		return
	}
	r.src = s
	r.scheduleDrain()
}

func (r *LineReader) onChunk(p []byte) {
	r.demanding = false
	if r.closed.IsSet() {
		return
	}
	text, err := r.decoder.Decode(p)
	if err != nil {
		r.emitError(err)
	}
	r.pending = r.split.feed(text, r.pending)
	r.scheduleDrain()
}

func (r *LineReader) onSourceEnd() {
	r.demanding = false
	if !r.closed.IsSet() {
		text, err := r.decoder.Flush()
		if err != nil {
			r.emitError(err)
		}
		r.pending = r.split.feed(text, r.pending)
	}
	r.ended.Set()
	r.scheduleDrain()
}

func (r *LineReader) scheduleDrain() {
	if r.draining || r.finished {
		return
	}
	r.draining = true
	r.loop.post(r.drain)
}

// drain delivers at most one line per call and reschedules itself, so Pause
// and Close called from a handler are seen before the next line.
func (r *LineReader) drain() {
	r.draining = false
	if r.finished || r.paused.IsSet() {
		return
	}

	if len(r.pending) == 0 {
		switch {
		case !r.ended.IsSet():
			if !r.demanding && r.src != nil {
				r.demanding = true
				r.src.Resume()
			}
		case r.split.fragment != "":
			r.emitLine(r.split.flush())
			if !r.paused.IsSet() {
				r.scheduleDrain()
			}
		default:
			r.finish()
		}
		return
	}

	line := r.pending[0]
	r.pending[0] = ""
	r.pending = r.pending[1:]
	r.emitLine(line)

	if !r.paused.IsSet() {
		r.scheduleDrain()
	}
}

func (r *LineReader) emitLine(line string) {
	n := int(r.lineno.Add(1))
	if r.opts.SkipEmptyLines && line == "" {
		return
	}
	for _, h := range r.onLine.snapshot() {
		h(n, line)
	}
}

func (r *LineReader) emitError(err error) {
	for _, h := range r.onError.snapshot() {
		h(err)
	}
}

func (r *LineReader) finish() {
	r.finished = true

	r.mu.Lock()
	stream := r.stream
	r.mu.Unlock()
	if stream != nil {
		_ = stream.Close()
	}

	for _, h := range r.onEnd.snapshot() {
		h()
	}
	close(r.done)
	r.loop.stop()
}

// sink forwards stream events onto the reader's loop.
type sink struct {
	r *LineReader
}

func (s sink) Chunk(p []byte) {
	s.r.loop.post(func() { s.r.onChunk(p) })
}

func (s sink) End() {
	s.r.loop.post(s.r.onSourceEnd)
}

func (s sink) Error(err error) {
	s.r.loop.post(func() { s.r.emitError(err) })
}
