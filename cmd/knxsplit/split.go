package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/boatkit-io/knxsplit/pkg/config"
	"github.com/boatkit-io/knxsplit/pkg/endpoint/xmlendpoint"
	"github.com/boatkit-io/knxsplit/pkg/progress"
	"github.com/boatkit-io/knxsplit/pkg/splitter"
)

// Summary describes the outcome of one split run.
type Summary struct {
	Input   string
	Filters string

	Total     int
	Matched   int
	Other     int
	Discarded int
	Malformed int

	MatchedPath string
	// empty when other telegrams were discarded
	OtherPath string
}

// SplitFile reads input, partitions its telegrams and writes the buckets.
// The summary is returned even when writing fails, describing what was classified.
func SplitFile(cfg *config.Config, input string, log *logrus.Logger, rep progress.Reporter) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	filters, err := cfg.FilterSet()
	if err != nil {
		return nil, err
	}
	matchedPath, otherPath, err := cfg.OutputPaths(filters, input)
	if err != nil {
		return nil, err
	}

	ep := xmlendpoint.NewXMLEndpoint(cfg.EndpointOptions(), log)
	ep.SetReporter(rep)
	doc, err := ep.Load(input)
	if err != nil {
		return nil, err
	}
	log.Infof("read %s: %d telegrams in <%s>", input, doc.Count(), doc.RootTag())

	sp := splitter.NewSplitter(filters, cfg.SplitterOptions(), log)
	sp.SetReporter(rep)
	res := sp.Split(doc.Telegrams)

	sum := &Summary{
		Input:       input,
		Filters:     filters.String(),
		Total:       res.Total(),
		Matched:     len(res.Matched),
		Other:       len(res.Other),
		Discarded:   res.Discarded,
		Malformed:   res.Malformed,
		MatchedPath: matchedPath,
	}
	if res.Malformed > 0 {
		log.Warnf("%d telegrams without a usable group address were treated as not matching", res.Malformed)
	}

	if err := ep.Write(matchedPath, doc, res.Matched); err != nil {
		return sum, err
	}
	if cfg.DiscardOthers {
		return sum, nil
	}
	if err := ep.Write(otherPath, doc, res.Other); err != nil {
		return sum, err
	}
	sum.OtherPath = otherPath
	return sum, nil
}

// PrintSummary writes the per bucket counts with digit grouping.
func PrintSummary(w io.Writer, s *Summary) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Processed %d telegrams from %s\n", s.Total, s.Input)
	p.Fprintf(w, "Telegrams with group address %s saved to %s\n", s.Filters, s.MatchedPath)
	p.Fprintf(w, "  count: %d\n", s.Matched)
	if s.OtherPath != "" {
		p.Fprintf(w, "Other telegrams saved to %s\n", s.OtherPath)
		p.Fprintf(w, "  count: %d\n", s.Other)
	} else {
		p.Fprintf(w, "Other telegrams discarded: %d\n", s.Discarded)
	}
	if s.Malformed > 0 {
		p.Fprintf(w, "Telegrams without usable group address: %d\n", s.Malformed)
	}
}
