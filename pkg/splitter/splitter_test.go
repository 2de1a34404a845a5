package splitter

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boatkit-io/knxsplit/pkg/filter"
	"github.com/boatkit-io/knxsplit/pkg/telegram"
)

const ackRaw = "2E00B06011050717CC"

func telegrams(addrs ...string) []*telegram.Telegram {
	out := make([]*telegram.Telegram, len(addrs))
	for i, a := range addrs {
		el := etree.NewElement("Telegram")
		if a == ackRaw {
			el.CreateAttr("RawData", a)
		} else {
			el.CreateAttr("GroupAddress", a)
		}
		out[i] = telegram.New(i, el, telegram.DefaultOptions())
	}
	return out
}

func addresses(ts []*telegram.Telegram) []string {
	out := []string{}
	for _, t := range ts {
		if t.Ack {
			out = append(out, "ack")
			continue
		}
		out = append(out, t.Address)
	}
	return out
}

func newSplitter(t *testing.T, prefixes []string, opts Options) (*Splitter, *bytes.Buffer) {
	fs, err := filter.NewSet(prefixes)
	require.NoError(t, err)
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.DebugLevel)
	return NewSplitter(fs, opts, log), &buf
}

func TestSplitScenarios(t *testing.T) {
	tests := []struct {
		name      string
		addrs     []string
		filters   []string
		opts      Options
		matched   []string
		other     []string
		discarded int
		malformed int
	}{
		{
			name:    "single filter",
			addrs:   []string{"0/7/1", "2/1/5", "0/7/9"},
			filters: []string{"0/7/"},
			matched: []string{"0/7/1", "0/7/9"},
			other:   []string{"2/1/5"},
		},
		{
			name:    "two filters discard others",
			addrs:   []string{"0/7/1", "2/1/5", "0/7/9"},
			filters: []string{"0/7/", "2/1/"},
			opts:    Options{DiscardOthers: true},
			matched: []string{"0/7/1", "2/1/5", "0/7/9"},
			other:   []string{},
		},
		{
			name:      "missing sub-group is malformed",
			addrs:     []string{"0/7", "0/7/2"},
			filters:   []string{"0/7/"},
			matched:   []string{"0/7/2"},
			other:     []string{"0/7"},
			malformed: 1,
		},
		{
			name:      "malformed discarded",
			addrs:     []string{"0/7", "", "0/7/2", "1/1/1"},
			filters:   []string{"0/7/"},
			opts:      Options{DiscardOthers: true},
			matched:   []string{"0/7/2"},
			other:     []string{},
			discarded: 3,
			malformed: 2,
		},
		{
			name:    "duplicate filters",
			addrs:   []string{"3/3/3", "0/7/1"},
			filters: []string{"0/7/", "0/7/"},
			matched: []string{"0/7/1"},
			other:   []string{"3/3/3"},
		},
		{
			name:      "acks without following are other",
			addrs:     []string{"0/7/1", ackRaw, "2/1/5", ackRaw},
			filters:   []string{"0/7/"},
			matched:   []string{"0/7/1"},
			other:     []string{"ack", "2/1/5", "ack"},
			malformed: 2,
		},
		{
			name:    "acks follow previous telegram",
			addrs:   []string{ackRaw, "0/7/1", ackRaw, "2/1/5", ackRaw, ackRaw, "0/7/9"},
			filters: []string{"0/7/"},
			opts:    Options{FollowAcks: true},
			matched: []string{"ack", "0/7/1", "ack", "0/7/9"},
			other:   []string{"2/1/5", "ack", "ack"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newSplitter(t, tt.filters, tt.opts)
			in := telegrams(tt.addrs...)
			res := s.Split(in)

			if diff := cmp.Diff(tt.matched, addresses(res.Matched)); diff != "" {
				t.Errorf("matched (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.other, addresses(res.Other)); diff != "" {
				t.Errorf("other (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.discarded, res.Discarded)
			assert.Equal(t, tt.malformed, res.Malformed)
			assert.Equal(t, len(in), res.Total())
		})
	}
}

func TestSplitMalformedDiagnostic(t *testing.T) {
	s, buf := newSplitter(t, []string{"0/7/"}, Options{})
	s.Split(telegrams("0/7"))

	assert.Contains(t, buf.String(), `malformed group address \"0/7\"`)
	assert.Contains(t, buf.String(), "routed to other")
}

func TestSplitQuietWithoutVerbose(t *testing.T) {
	s, buf := newSplitter(t, []string{"0/7/"}, Options{})
	s.log.SetLevel(logrus.InfoLevel)
	s.Split(telegrams("0/7", "0/7/1"))

	assert.Empty(t, buf.String())
}

// partition and stable order hold for any mix of addresses and filters
func TestSplitPartitionLaw(t *testing.T) {
	addrs := []string{}
	for i := 0; i < 500; i++ {
		switch i % 13 {
		case 0:
			addrs = append(addrs, "bad")
		case 1:
			addrs = append(addrs, ackRaw)
		default:
			addrs = append(addrs, fmt.Sprintf("%d/%d/%d", i%5, (i*7)%8, i%256))
		}
	}
	in := telegrams(addrs...)

	for _, discard := range []bool{false, true} {
		s, _ := newSplitter(t, []string{"0/7/", "1/3/", "4/0/"}, Options{DiscardOthers: discard})
		res := s.Split(in)

		var wantMatched, wantOther []*telegram.Telegram
		seen := map[*telegram.Telegram]int{}
		for _, tg := range in {
			b, _ := s.Classify(tg)
			if b == Matched {
				wantMatched = append(wantMatched, tg)
			} else if !discard {
				wantOther = append(wantOther, tg)
			}
		}
		for _, tg := range res.Matched {
			seen[tg]++
		}
		for _, tg := range res.Other {
			seen[tg]++
		}
		for tg, n := range seen {
			assert.Equal(t, 1, n, "telegram %d routed %d times", tg.Index, n)
		}
		if !discard {
			assert.Len(t, seen, len(in))
		}
		assert.Equal(t, wantMatched, res.Matched)
		assert.Equal(t, wantOther, res.Other)
	}
}

func TestBucketString(t *testing.T) {
	assert.Equal(t, "matched", Matched.String())
	assert.Equal(t, "other", Other.String())
}
