package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/henderiw/lmtable/pkg/lmtable"
)

// Store is the YAML file holding the committed partitions.
//
//	size: 4096
//	entries:
//	  0:
//	    labels: {tool: lmedit, track: V1, attribute: speed}
//	    items:
//	    - {begin: 0, end: 100, value: "80"}
type Store struct {
	Size    int64                           `yaml:"size"`
	Entries map[int64]lmtable.Entry[string] `yaml:"entries,omitempty"`
}

// openStore loads the store at path into a table. A missing file is an
// empty store of the given size.
func openStore(path string, size int64) (*Store, lmtable.Table[string], error) {
	st := &Store{Size: size}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, nil, fmt.Errorf("error reading store %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, st); err != nil {
			return nil, nil, fmt.Errorf("error decoding store %s: %w", path, err)
		}
	}
	if st.Size <= 0 {
		st.Size = size
	}
	tbl, err := lmtable.NewTable(st.Size, st.Entries, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("store %s: %w", path, err)
	}
	return st, tbl, nil
}

func (r *Store) write(path string, tbl lmtable.Table[string]) error {
	r.Entries = tbl.GetAll()
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("error encoding store: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// listing is the output of the entries command.
type listing struct {
	Entries map[int64]lmtable.Entry[string] `yaml:"entries"`
	Free    *int64                          `yaml:"free"`
}

func listEntries(tbl lmtable.Table[string], lbls map[string]string) (*listing, error) {
	selector, err := lmtable.GetLabelSelector(lbls)
	if err != nil {
		return nil, err
	}
	out := &listing{Entries: tbl.GetByLabel(selector)}
	free, err := tbl.FindFree()
	switch {
	case errors.Is(err, lmtable.ErrFull):
	case err != nil:
		return nil, err
	default:
		out.Free = &free
	}
	return out, nil
}
