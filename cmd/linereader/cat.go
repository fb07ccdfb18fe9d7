package main

import (
	"fmt"
	"os"
	"time"

	"github.com/korneil/linereader"
	"github.com/korneil/linereader/internal/printer"
	"github.com/mingrammer/cfmt"
	"github.com/spf13/cobra"
)

var catCMD = &cobra.Command{
	Use:   "cat <path|url>...",
	Short: "Print the lines of each input",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := printer.New(os.Stdout, cfg.Output.Number, cfg.Output.Color)
		s := newSession()
		defer s.Close()

		failed := 0
		for _, locator := range args {
			if s.Interrupted() {
				break
			}
			if len(args) > 1 {
				p.Header(locator)
			}
			if err := cat(s, p, locator); err != nil {
				cfmt.Errorf("%s: %v\n", locator, err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d inputs failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	f := catCMD.Flags()
	f.BoolP("follow", "f", false, "keep reading data appended to local files")
	f.IntP("max-lines", "n", 0, "stop after this many lines")
	f.Duration("delay", 0, "pause for this long after every line")
	f.Bool("number", true, "print line numbers")
	f.Bool("no-color", false, "disable colors")
}

func cat(s *session, p *printer.Printer, locator string) error {
	opts := cfg.Reader
	r := linereader.New(locator, &opts)
	maxLines, delay := cfg.Output.MaxLines, cfg.Output.Delay

	var failure error
	r.OnLine(func(n int, line string) {
		if maxLines > 0 && n > maxLines {
			r.Close()
			return
		}
		p.Line(n, line)
		if delay > 0 {
			r.Pause()
			time.AfterFunc(delay, r.Resume)
		}
	})
	r.OnError(func(err error) {
		failure = err
		r.Close()
	})
	s.track(r)

	r.Start()
	r.Wait()
	return failure
}
