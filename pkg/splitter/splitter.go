// Package splitter partitions telegrams into the matched and other buckets.
package splitter

import (
	"github.com/sirupsen/logrus"

	"github.com/boatkit-io/knxsplit/pkg/filter"
	"github.com/boatkit-io/knxsplit/pkg/progress"
	"github.com/boatkit-io/knxsplit/pkg/telegram"
)

// Bucket identifies an output partition.
type Bucket int

const (
	// Matched telegrams have a prefix in the filter set.
	Matched Bucket = iota
	// Other telegrams are everything else.
	Other
)

func (b Bucket) String() string {
	if b == Matched {
		return "matched"
	}
	return "other"
}

// Options controls routing beyond the filter set.
type Options struct {
	// drop other telegrams instead of collecting them
	DiscardOthers bool

	// route acknowledgement frames to the bucket of the preceding telegram
	FollowAcks bool
}

// Result holds both buckets in input order.
type Result struct {
	Matched []*telegram.Telegram
	Other   []*telegram.Telegram

	// telegrams dropped by DiscardOthers
	Discarded int

	// telegrams without a usable group address
	Malformed int
}

// Total returns the number of telegrams classified.
func (r *Result) Total() int {
	return len(r.Matched) + len(r.Other) + r.Discarded
}

// Splitter instances route telegrams by the main/middle prefix of their group address.
type Splitter struct {
	filters  *filter.Set
	opts     Options
	log      *logrus.Logger
	reporter progress.Reporter
}

// NewSplitter instantiates a new Splitter
func NewSplitter(filters *filter.Set, opts Options, log *logrus.Logger) *Splitter {
	return &Splitter{
		filters:  filters,
		opts:     opts,
		log:      log,
		reporter: progress.Nop{},
	}
}

// SetReporter sets where classification progress is reported
func (s *Splitter) SetReporter(r progress.Reporter) {
	s.reporter = r
}

// Classify returns the bucket of a single telegram by its address alone.
func (s *Splitter) Classify(t *telegram.Telegram) (Bucket, error) {
	prefix, err := t.Prefix()
	if err != nil {
		return Other, err
	}
	if s.filters.Match(prefix) {
		return Matched, nil
	}
	return Other, nil
}

// Split classifies telegrams in one pass. Relative order is kept in both buckets.
func (s *Splitter) Split(telegrams []*telegram.Telegram) *Result {
	res := &Result{}
	s.reporter.Start(int64(len(telegrams)), progress.Items, "classifying telegrams")
	defer s.reporter.Finish()

	s.log.Debugf("filtering %d telegrams by group address prefix %s", len(telegrams), s.filters)

	// an ack without a preceding telegram goes with the matched ones
	last := Matched
	for _, t := range telegrams {
		var dest Bucket
		if t.Ack && s.opts.FollowAcks {
			dest = last
		} else {
			var err error
			dest, err = s.Classify(t)
			if err != nil {
				res.Malformed++
				s.log.Debugf("telegram %d: %v; routed to %s", t.Index+1, err, Other)
			} else if dest == Matched {
				s.log.Debugf("telegram %d: found %s", t.Index+1, t.Address)
			}
			if !t.Ack {
				last = dest
			}
		}
		s.route(res, t, dest)
		s.reporter.Add(1)
	}
	return res
}

// route is a helper for appending to the destination bucket
func (s *Splitter) route(res *Result, t *telegram.Telegram, dest Bucket) {
	switch {
	case dest == Matched:
		res.Matched = append(res.Matched, t)
	case s.opts.DiscardOthers:
		res.Discarded++
	default:
		res.Other = append(res.Other, t)
	}
}
