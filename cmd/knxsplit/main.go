/*
Knxsplit reads a KNX communication log exported as XML and splits its
telegrams into two XML files by the main/middle group of their group address.

Telegrams whose main/middle prefix equals one of the filters go to the
matched file, named after the filters (knx_tel_0_7.xml for 0/7/); all others
go to knx_tel.xml unless --discard-others is given. Both files keep the
container element of the input, so they load into the same tools.

The flags are:

	-g, --group-address  main/middle/ prefix to keep, repeatable up to 10 times (default 0/7/)
	--discard-others     do not write the other file
	--follow-acks        keep acknowledgement frames with the telegram they confirm
	--no-annotate        do not append GA/QA comments to written telegrams
	-o, --output-dir     directory for the output files
	--config             YAML file with defaults for all of the above
	--no-progress        do not draw progress bars
	-v, --verbose        debug output
*/
package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/boatkit-io/knxsplit/pkg/config"
	"github.com/boatkit-io/knxsplit/pkg/progress"
)

type flags struct {
	configFile    string
	groups        []string
	discardOthers bool
	followAcks    bool
	noAnnotate    bool
	outputDir     string
	noProgress    bool
	verbose       bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "knxsplit [flags] <input.xml>",
		Short:         "Split a KNX telegram log by group address",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}

			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			if cfg.Verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			var rep progress.Reporter = progress.Nop{}
			if cfg.Progress {
				rep = progress.NewBar(cmd.ErrOrStderr())
			}

			sum, err := SplitFile(cfg, args[0], log, rep)
			if sum != nil {
				PrintSummary(cmd.OutOrStdout(), sum)
			}
			return err
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configFile, "config", "", "YAML config file")
	fl.StringArrayVarP(&f.groups, "group-address", "g", []string{"0/7/"}, "group address prefix to filter on (main/middle/), repeatable")
	fl.BoolVar(&f.discardOthers, "discard-others", false, "discard telegrams not matching any filter (no knx_tel.xml output)")
	fl.BoolVar(&f.followAcks, "follow-acks", false, "route acknowledgement frames with the preceding telegram")
	fl.BoolVar(&f.noAnnotate, "no-annotate", false, "do not add GA/QA comments to the output")
	fl.StringVarP(&f.outputDir, "output-dir", "o", ".", "directory for the output files")
	fl.BoolVar(&f.noProgress, "no-progress", false, "do not show progress bars")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed debug output")
	return cmd
}

// config loads the config file, if any, and applies the flags given on the command line over it.
func (f *flags) config(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			return nil, err
		}
	}

	fl := cmd.Flags()
	if fl.Changed("group-address") {
		cfg.Filters = f.groups
	}
	if fl.Changed("discard-others") {
		cfg.DiscardOthers = f.discardOthers
	}
	if fl.Changed("follow-acks") {
		cfg.FollowAcks = f.followAcks
	}
	if fl.Changed("no-annotate") {
		cfg.Annotate = !f.noAnnotate
	}
	if fl.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if fl.Changed("no-progress") {
		cfg.Progress = !f.noProgress
	}
	if fl.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
	return cfg, nil
}

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		logrus.StandardLogger().Error(errors.Wrap(err, "knxsplit"))
		exitCode = 1
	}
}
