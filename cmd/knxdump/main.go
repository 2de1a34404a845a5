// Knxdump prints the decoded addressing of every telegram in a KNX
// communication log, and the bucket knxsplit would route it to.
//
// A group address prefixed with "?" has no usable main/middle/ prefix. One
// prefixed with "!" is routable but not a 3-level address within 31/7/255.
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/boatkit-io/knxsplit/pkg/endpoint/xmlendpoint"
	"github.com/boatkit-io/knxsplit/pkg/filter"
	"github.com/boatkit-io/knxsplit/pkg/knx"
	"github.com/boatkit-io/knxsplit/pkg/splitter"
	"github.com/boatkit-io/knxsplit/pkg/telegram"
)

func newRootCmd() *cobra.Command {
	var groups []string
	var limit int
	var verbose bool

	cmd := &cobra.Command{
		Use:          "knxdump [flags] <input.xml>",
		Short:        "Print the group and source address of each telegram",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			log.SetOutput(cmd.ErrOrStderr())
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			filters, err := filter.NewSet(groups)
			if err != nil {
				return err
			}
			doc, err := xmlendpoint.NewXMLEndpoint(xmlendpoint.DefaultOptions(), log).Load(args[0])
			if err != nil {
				return err
			}
			log.Infof("in %s: %d telegrams, filters %s", args[0], doc.Count(), filters)

			ts := doc.Telegrams
			if limit > 0 && limit < len(ts) {
				ts = ts[:limit]
			}
			return dump(cmd.OutOrStdout(), splitter.NewSplitter(filters, splitter.Options{}, log), ts)
		},
	}
	cmd.Flags().StringArrayVarP(&groups, "group-address", "g", []string{filter.DefaultPrefix}, "group address prefix to classify against, repeatable")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "print at most this many telegrams")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed debug output")
	return cmd
}

// dump writes one aligned row per telegram.
func dump(w io.Writer, sp *splitter.Splitter, ts []*telegram.Telegram) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tGA\tPREFIX\tQA\tBUCKET")
	for _, t := range ts {
		ga, prefix, qa := t.Address, "", t.Source
		if t.Ack {
			ga = "ack"
		}
		bucket, err := sp.Classify(t)
		switch {
		case err == nil:
			prefix, _ = t.Prefix()
			if _, perr := knx.ParseGroupAddress(t.Address); perr != nil {
				ga = "!" + ga
			}
		case !t.Ack:
			ga = "?" + ga
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", t.Index+1, orDash(ga), orDash(prefix), orDash(qa), bucket)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	if err := newRootCmd().Execute(); err != nil {
		exitCode = 1
	}
}
