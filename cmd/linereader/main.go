package main

import (
	"fmt"
	"os"

	"github.com/korneil/linereader/internal/config"
	"github.com/mingrammer/cfmt"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string
)

var mainCMD = &cobra.Command{
	Use:   "linereader",
	Short: "Read files and URLs line by line",
	Long:  "Streams local files or http(s) URLs line by line with pause, resume and follow support.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		path := cfgFile
		if path == "" {
			path = config.DefaultFile
		}
		if cfg, err = config.Load(path, cfgFile != ""); err != nil {
			return err
		}
		return applyFlags(cmd)
	},
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configCMD = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfmt.Successln("Running with config:")
		fmt.Print(string(cfg.GetConfigYAML()))
	},
}

func init() {
	f := mainCMD.PersistentFlags()
	f.StringVarP(&cfgFile, "config", "c", "", "config file (default "+config.DefaultFile+" if present)")
	f.StringP("encoding", "e", "", "input encoding, or auto to detect it")
	f.Bool("skip-empty", false, "drop empty lines")
	f.Int("buf-size", 0, "read chunk size in bytes")

	mainCMD.AddCommand(catCMD, countCMD, configCMD)
}

// applyFlags overrides the loaded config with the flags given explicitly.
func applyFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	if f.Changed("encoding") {
		cfg.Reader.Encoding, _ = f.GetString("encoding")
	}
	if f.Changed("skip-empty") {
		cfg.Reader.SkipEmptyLines, _ = f.GetBool("skip-empty")
	}
	if f.Changed("buf-size") {
		cfg.Reader.BufSize, _ = f.GetInt("buf-size")
	}
	if f.Lookup("follow") != nil && f.Changed("follow") {
		cfg.Reader.Follow, _ = f.GetBool("follow")
	}
	if f.Lookup("max-lines") != nil && f.Changed("max-lines") {
		cfg.Output.MaxLines, _ = f.GetInt("max-lines")
	}
	if f.Lookup("delay") != nil && f.Changed("delay") {
		cfg.Output.Delay, _ = f.GetDuration("delay")
	}
	if f.Lookup("number") != nil && f.Changed("number") {
		cfg.Output.Number, _ = f.GetBool("number")
	}
	if f.Lookup("no-color") != nil && f.Changed("no-color") {
		noColor, _ := f.GetBool("no-color")
		cfg.Output.Color = !noColor
	}
	if f.Lookup("parallel") != nil && f.Changed("parallel") {
		cfg.Count.Parallel, _ = f.GetInt("parallel")
	}
	if cfg.Count.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", cfg.Count.Parallel)
	}
	return nil
}

func main() {
	if err := mainCMD.Execute(); err != nil {
		cfmt.Errorln(err)
		os.Exit(1)
	}
}
