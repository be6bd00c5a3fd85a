package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/henderiw/lmtable/pkg/intersect"
	"github.com/henderiw/lmtable/pkg/partition"
)

// Document is the YAML input of every command.
//
//	length: 300
//	default: none
//	empty: none
//	unit: km/h
//	items:
//	- {begin: 0, end: 100, value: "80"}
//	reference:
//	- {begin: 0, end: 300, value: 25000V}
//	compatibility:
//	  25000V: [C1US]
//	ranges:
//	- {id: a, begin: 0, end: 100}
type Document struct {
	Length        float64                 `yaml:"length,omitempty"`
	Default       *string                 `yaml:"default,omitempty"`
	Empty         string                  `yaml:"empty,omitempty"`
	Unit          string                  `yaml:"unit,omitempty"`
	Items         partition.Items[string] `yaml:"items"`
	Reference     partition.Items[string] `yaml:"reference,omitempty"`
	Compatibility map[string][]string     `yaml:"compatibility,omitempty"`
	Ranges        []intersect.Range       `yaml:"ranges,omitempty"`
}

func readDocument(path string, stdin io.Reader) (*Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return parseDocument(data)
}

func parseDocument(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	return doc, nil
}

// TotalLength is the declared length, or the furthest item end.
func (r *Document) TotalLength() float64 {
	if r.Length > 0 {
		return r.Length
	}
	var end float64
	for _, item := range r.Items {
		end = max(end, item.End)
	}
	return end
}

// Controls reads the items as restrictions, the empty value meaning no
// restriction.
func (r *Document) Controls() partition.Items[intersect.Control[string]] {
	out := make(partition.Items[intersect.Control[string]], 0, len(r.Items))
	for _, item := range r.Items {
		ctl := intersect.Restricted(item.Value)
		if item.Value == r.Empty {
			ctl = intersect.Unrestricted[string]()
		}
		out = append(out, partition.Item[intersect.Control[string]]{
			Begin: item.Begin,
			End:   item.End,
			Value: ctl,
			Unit:  item.Unit,
		})
	}
	return out
}

func (r *Document) Table() intersect.Table[string, string] {
	table := intersect.Table[string, string]{}
	for ref, codes := range r.Compatibility {
		table.Allow(ref, codes...)
	}
	return table
}

func (r *Document) fixOptions(merge bool) []partition.FixOption[string] {
	var opts []partition.FixOption[string]
	if r.Default != nil {
		opts = append(opts, partition.WithDefaultValue(*r.Default))
	}
	if r.Unit != "" {
		opts = append(opts, partition.WithDefaultUnit[string](r.Unit))
	}
	if merge {
		opts = append(opts, partition.WithMergeDefaults[string]())
	}
	return opts
}

func encodeYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	_, err = w.Write(data)
	return err
}
