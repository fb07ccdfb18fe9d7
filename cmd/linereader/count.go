package main

import (
	"context"
	"fmt"
	"os"

	"github.com/korneil/linereader"
	"github.com/korneil/linereader/internal/printer"
	"github.com/mingrammer/cfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var countCMD = &cobra.Command{
	Use:   "count <path|url>...",
	Short: "Count the lines of each input concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := newSession()
		defer s.Close()

		counts := make([]int, len(args))
		errs := make([]error, len(args))

		eg, egCtx := errgroup.WithContext(cmd.Context())
		eg.SetLimit(cfg.Count.Parallel)
		for i, locator := range args {
			eg.Go(func() error {
				counts[i], errs[i] = count(egCtx, s, locator)
				if errs[i] != nil {
					return fmt.Errorf("%s: %w", locator, errs[i])
				}
				return nil
			})
		}
		err := eg.Wait()

		p := printer.New(os.Stdout, false, cfg.Output.Color)
		total := 0
		for i, locator := range args {
			p.Count(locator, counts[i], errs[i] != nil)
			total += counts[i]
		}
		if len(args) > 1 {
			p.Count("", total, err != nil)
		}
		if s.Interrupted() {
			cfmt.Warningln("Interrupted, counts are partial")
		}
		return err
	},
}

func init() {
	countCMD.Flags().IntP("parallel", "p", 0, "number of inputs read at once")
}

// count returns the number of lines read from locator. The reader is closed
// when ctx is canceled.
func count(ctx context.Context, s *session, locator string) (int, error) {
	opts := cfg.Reader
	opts.Follow = false
	r := linereader.New(locator, &opts)

	n := 0
	var failure error
	r.OnLine(func(int, string) { n++ })
	r.OnError(func(err error) {
		failure = err
		r.Close()
	})
	s.track(r)

	r.Start()
	select {
	case <-r.Done():
	case <-ctx.Done():
		r.Close()
		<-r.Done()
	}
	return n, failure
}
