package xmlendpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/boatkit-io/knxsplit/pkg/knx"
	"github.com/boatkit-io/knxsplit/pkg/telegram"
)

// Write saves telegrams to path inside a copy of doc's container: the root
// element with its attributes and non-record children, then the records in order.
// Non-record children such as RecordStop therefore end up ahead of the records.
// Processing instructions, directives and comments outside the root are kept,
// except the XML declaration which is always rewritten for UTF-8.
// A failed write leaves whatever was already flushed on disk.
func (x *XMLEndpoint) Write(path string, doc *Document, telegrams []*telegram.Telegram) error {
	out := x.build(doc, telegrams)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &OutputError{Path: path, Err: err}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return &OutputError{Path: path, Err: err}
	}
	_, werr := out.WriteTo(f)
	cerr := f.Close()
	if werr != nil {
		return &OutputError{Path: path, Err: werr}
	}
	if cerr != nil {
		return &OutputError{Path: path, Err: cerr}
	}
	x.log.Debugf("wrote %d telegrams to %s", len(telegrams), path)
	return nil
}

// build assembles the output tree without touching doc.
func (x *XMLEndpoint) build(doc *Document, telegrams []*telegram.Telegram) *etree.Document {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	src := doc.tree.Root()
	for _, tok := range doc.tree.Child {
		switch t := tok.(type) {
		case *etree.ProcInst:
			// the declaration is rewritten since output is always UTF-8
			if t.Target != "xml" {
				out.CreateProcInst(t.Target, t.Inst)
			}
		case *etree.Directive:
			out.CreateDirective(t.Data)
		case *etree.Comment:
			out.CreateComment(t.Data)
		case *etree.Element:
			if t == src {
				out.SetRoot(x.container(src))
			}
		}
	}

	root := out.Root()
	for _, t := range telegrams {
		root.AddChild(t.Element.Copy())
		if x.opts.Annotate && !t.Ack {
			root.AddChild(etree.NewComment(annotation(t)))
		}
	}
	out.Indent(2)
	return out
}

// container copies the root element without its records.
func (x *XMLEndpoint) container(src *etree.Element) *etree.Element {
	root := etree.NewElement(src.Tag)
	root.Space = src.Space
	for _, a := range src.Attr {
		root.CreateAttr(a.FullKey(), a.Value)
	}
	for _, c := range src.ChildElements() {
		if c.Tag != x.opts.RecordTag {
			root.AddChild(c.Copy())
		}
	}
	return root
}

// annotation describes a record as " GA: 0/7/1 ; QA: 1.1.5 ".
func annotation(t *telegram.Telegram) string {
	ga := "unknown"
	if _, err := t.Prefix(); err == nil {
		ga = t.Address
		if g, err := knx.ParseGroupAddress(t.Address); err == nil {
			ga = g.String()
		}
	}
	qa := t.Source
	if qa == "" {
		qa = "-"
	}
	return fmt.Sprintf(" GA: %s ; QA: %s ", commentSafe(ga), commentSafe(qa))
}

// commentSafe breaks up "--", which must not appear inside an XML comment.
func commentSafe(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return s
}
