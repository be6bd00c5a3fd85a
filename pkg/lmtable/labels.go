package lmtable

import (
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/selection"
)

const (
	LabelTool      = "tool"
	LabelTrack     = "track"
	LabelAttribute = "attribute"
)

// Labels returns the labels of an entry, empty values are left out.
func Labels(tool, track, attribute string) labels.Set {
	l := labels.Set{}
	for k, v := range map[string]string{LabelTool: tool, LabelTrack: track, LabelAttribute: attribute} {
		if v != "" {
			l[k] = v
		}
	}
	return l
}

// GetLabelSelector selects the entries carrying every label of l.
func GetLabelSelector(l map[string]string) (labels.Selector, error) {
	fullselector := labels.NewSelector()
	for k, v := range l {
		req, err := labels.NewRequirement(k, selection.Equals, []string{v})
		if err != nil {
			return nil, err
		}
		fullselector = fullselector.Add(*req)
	}
	return fullselector, nil
}
