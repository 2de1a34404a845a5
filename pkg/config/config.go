// Package config holds the settings of a split run, read from an optional
// YAML file and overlaid by command line flags.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/boatkit-io/knxsplit/pkg/endpoint/xmlendpoint"
	"github.com/boatkit-io/knxsplit/pkg/filter"
	"github.com/boatkit-io/knxsplit/pkg/splitter"
	"github.com/boatkit-io/knxsplit/pkg/telegram"
)

const (
	DefaultMatchedName = `knx_tel_{{ if .Filters }}{{ .Filters | join "-" }}{{ else }}all{{ end }}.xml`
	DefaultOtherName   = "knx_tel.xml"
)

// Config is the complete set of run settings.
type Config struct {
	Filters       []string `yaml:"filters"`
	DiscardOthers bool     `yaml:"discard_others"`
	FollowAcks    bool     `yaml:"follow_acks"`
	Annotate      bool     `yaml:"annotate"`
	Verbose       bool     `yaml:"verbose"`
	Progress      bool     `yaml:"progress"`

	OutputDir   string `yaml:"output_dir"`
	MatchedName string `yaml:"matched_name"`
	OtherName   string `yaml:"other_name"`

	RecordTag   string `yaml:"record_tag"`
	AddressAttr string `yaml:"address_attribute"`
	RawDataAttr string `yaml:"rawdata_attribute"`
}

// Error reports an unusable setting.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *Error) Cause() error { return e.Err }
func (e *Error) Unwrap() error { return e.Err }

// Default returns the settings of a run without config file or flags.
func Default() *Config {
	return &Config{
		Filters:     []string{filter.DefaultPrefix},
		Annotate:    true,
		Progress:    true,
		OutputDir:   ".",
		MatchedName: DefaultMatchedName,
		OtherName:   DefaultOtherName,
		RecordTag:   xmlendpoint.DefaultRecordTag,
		AddressAttr: telegram.DefaultAddressAttr,
		RawDataAttr: telegram.DefaultRawDataAttr,
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep their default.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Field: "file", Err: err}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &Error{Field: "file", Err: errors.Wrapf(err, "parsing %s", path)}
	}
	return cfg, nil
}

// FilterSet validates the configured filters.
func (c *Config) FilterSet() (*filter.Set, error) {
	fs, err := filter.NewSet(c.Filters)
	if err != nil {
		return nil, &Error{Field: "filters", Err: err}
	}
	return fs, nil
}

// Validate checks every setting that can be checked before the input is read.
func (c *Config) Validate() error {
	fs, err := c.FilterSet()
	if err != nil {
		return err
	}
	if c.RecordTag == "" {
		return &Error{Field: "record_tag", Err: errors.New("must not be empty")}
	}
	if c.AddressAttr == "" && c.RawDataAttr == "" {
		return &Error{Field: "address_attribute", Err: errors.New("address_attribute or rawdata_attribute required")}
	}
	matched, other, err := c.OutputPaths(fs, "input.xml")
	if err != nil {
		return err
	}
	if matched == other && !c.DiscardOthers {
		return &Error{Field: "other_name", Err: errors.Errorf("both buckets would be written to %s", matched)}
	}
	return nil
}

// EndpointOptions returns the document loader and writer settings.
func (c *Config) EndpointOptions() xmlendpoint.Options {
	return xmlendpoint.Options{
		RecordTag: c.RecordTag,
		Telegram: telegram.Options{
			AddressAttr: c.AddressAttr,
			RawDataAttr: c.RawDataAttr,
		},
		Annotate: c.Annotate,
	}
}

// SplitterOptions returns the routing settings.
func (c *Config) SplitterOptions() splitter.Options {
	return splitter.Options{
		DiscardOthers: c.DiscardOthers,
		FollowAcks:    c.FollowAcks,
	}
}

// nameData is what the output name templates see.
type nameData struct {
	// de-duplicated filters in file name form, e.g. 0_7
	Filters []string
	// de-duplicated filters as configured, e.g. 0/7/
	Prefixes []string
	// input file name without directory and extensions
	Input string
}

// OutputPaths renders the matched and other output paths for an input file.
func (c *Config) OutputPaths(fs *filter.Set, input string) (string, string, error) {
	base := filepath.Base(input)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	data := nameData{Filters: fs.Tags(), Prefixes: fs.Unique(), Input: base}

	matched, err := render("matched_name", c.MatchedName, data)
	if err != nil {
		return "", "", err
	}
	other, err := render("other_name", c.OtherName, data)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(c.OutputDir, matched), filepath.Join(c.OutputDir, other), nil
}

func render(field, text string, data nameData) (string, error) {
	tmpl, err := template.New(field).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", &Error{Field: field, Err: err}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &Error{Field: field, Err: err}
	}
	name := strings.TrimSpace(buf.String())
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", &Error{Field: field, Err: errors.Errorf("invalid file name %q", name)}
	}
	return name, nil
}
