// Package xmlendpoint reads KNX communication logs exported as XML into
// telegrams and writes telegram subsets back in the same document shape.
package xmlendpoint

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"

	"github.com/boatkit-io/knxsplit/pkg/progress"
	"github.com/boatkit-io/knxsplit/pkg/telegram"
)

// DefaultRecordTag is the element name of one telegram in an ETS export.
const DefaultRecordTag = "Telegram"

// Options configures how records are found, addressed and written.
type Options struct {
	// element name of the records directly below the root
	RecordTag string

	Telegram telegram.Options

	// append a GA/QA comment after each written record
	Annotate bool
}

// DefaultOptions returns options for ETS CommunicationLog exports.
func DefaultOptions() Options {
	return Options{
		RecordTag: DefaultRecordTag,
		Telegram:  telegram.DefaultOptions(),
		Annotate:  true,
	}
}

// Document is a loaded communication log.
type Document struct {
	Path      string
	Telegrams []*telegram.Telegram

	tree *etree.Document
}

// Count returns the number of records found below the root.
func (d *Document) Count() int {
	return len(d.Telegrams)
}

// RootTag returns the name of the container element, e.g. CommunicationLog.
func (d *Document) RootTag() string {
	return d.tree.Root().FullTag()
}

// XMLEndpoint loads and saves communication log documents.
type XMLEndpoint struct {
	log      *logrus.Logger
	opts     Options
	reporter progress.Reporter
}

// NewXMLEndpoint creates a new XML endpoint
func NewXMLEndpoint(opts Options, log *logrus.Logger) *XMLEndpoint {
	if opts.RecordTag == "" {
		opts.RecordTag = DefaultRecordTag
	}
	return &XMLEndpoint{
		log:      log,
		opts:     opts,
		reporter: progress.Nop{},
	}
}

// SetReporter sets where read progress is reported
func (x *XMLEndpoint) SetReporter(r progress.Reporter) {
	x.reporter = r
}

// Load reads the whole document at path. Inputs ending in .lz4 are decompressed first.
func (x *XMLEndpoint) Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputError{Path: path, Err: err}
	}
	defer f.Close()

	total := int64(-1)
	if fi, err := f.Stat(); err == nil {
		total = fi.Size()
	}
	x.reporter.Start(total, progress.Bytes, "reading "+filepath.Base(path))
	defer x.reporter.Finish()

	var r io.Reader = progress.Reader(f, x.reporter)
	if strings.EqualFold(filepath.Ext(path), ".lz4") {
		r = lz4.NewReader(r)
	}

	tree := etree.NewDocument()
	tree.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := tree.ReadFrom(r); err != nil {
		return nil, &InputError{Path: path, Err: errors.Wrap(err, "not well-formed")}
	}
	root := tree.Root()
	if root == nil {
		return nil, &InputError{Path: path, Err: errors.New("no root element")}
	}

	records := root.SelectElements(x.opts.RecordTag)
	doc := &Document{
		Path:      path,
		Telegrams: make([]*telegram.Telegram, len(records)),
		tree:      tree,
	}
	for i, el := range records {
		doc.Telegrams[i] = telegram.New(i, el, x.opts.Telegram)
	}

	x.log.Debugf("loaded %s: <%s> with %d <%s> records", path, root.FullTag(), doc.Count(), x.opts.RecordTag)
	for _, t := range doc.Telegrams[:min(3, doc.Count())] {
		x.log.Debugf("telegram %d: address=%q source=%q ack=%t", t.Index+1, t.Address, t.Source, t.Ack)
	}
	return doc, nil
}
