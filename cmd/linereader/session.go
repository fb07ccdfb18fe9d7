package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/korneil/linereader"
	"github.com/mingrammer/cfmt"
)

// session closes every tracked reader on SIGINT or SIGTERM. The third
// signal exits without waiting.
type session struct {
	signals chan os.Signal
	done    chan struct{}

	mu          sync.Mutex
	readers     map[uuid.UUID]*linereader.LineReader
	interrupted bool
}

func newSession() *session {
	s := &session{
		signals: make(chan os.Signal, 2),
		done:    make(chan struct{}),
		readers: make(map[uuid.UUID]*linereader.LineReader),
	}
	signal.Notify(s.signals, os.Interrupt, syscall.SIGTERM)
	go s.signalLoop()
	return s
}

func (s *session) signalLoop() {
	killCounter := 3
	for {
		select {
		case <-s.signals:
		case <-s.done:
			return
		}
		killCounter--
		if killCounter == 0 {
			cfmt.Warningln("Killing")
			os.Exit(130)
		}
		cfmt.Infoln("Shutting down")
		s.closeAll()
	}
}

func (s *session) closeAll() {
	s.mu.Lock()
	s.interrupted = true
	readers := make([]*linereader.LineReader, 0, len(s.readers))
	for _, r := range s.readers {
		readers = append(readers, r)
	}
	s.mu.Unlock()

	for _, r := range readers {
		r.Close()
	}
}

// track registers r until it ends. A reader tracked after an interrupt is
// closed right away.
func (s *session) track(r *linereader.LineReader) {
	s.mu.Lock()
	interrupted := s.interrupted
	if !interrupted {
		s.readers[r.ID()] = r
	}
	s.mu.Unlock()

	if interrupted {
		r.Close()
		return
	}
	r.OnEnd(func() {
		s.mu.Lock()
		delete(s.readers, r.ID())
		s.mu.Unlock()
	})
}

func (s *session) Interrupted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interrupted
}

func (s *session) Close() {
	signal.Stop(s.signals)
	close(s.done)
}
