package linereader

import "sync"

// loop runs posted tasks one at a time, in posting order, on one goroutine.
// Posting never blocks, so tasks and event handlers may post freely.
type loop struct {
	mu      sync.Mutex
	tasks   []func()
	stopped bool

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

func newLoop() *loop {
	return &loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (l *loop) start() {
	l.once.Do(func() { go l.run() })
}

// post queues fn. It is dropped once the loop has stopped.
func (l *loop) post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// stop is called from a task; the loop exits once that task returns.
func (l *loop) stop() {
	l.mu.Lock()
	l.stopped = true
	l.tasks = nil
	l.mu.Unlock()
}

func (l *loop) next() (fn func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, !l.stopped
	}
	fn = l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return fn, true
}

func (l *loop) run() {
	defer close(l.done)
	for {
		fn, ok := l.next()
		if !ok {
			return
		}
		if fn == nil {
			<-l.wake
			continue
		}
		fn()
	}
}
