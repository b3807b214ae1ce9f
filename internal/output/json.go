package output

import (
	"bytes"
	"encoding/json"
	"io"
	"reporeview/internal/checks"
	"sort"
)

// orderedObject is a JSON object that keeps its keys in insertion order.
type orderedObject struct {
	keys   []string
	values map[string]any
}

func newOrderedObject() *orderedObject {
	return &orderedObject{values: make(map[string]any)}
}

func (o *orderedObject) set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonTarget is the JSON document of one target: its families in display
// order and its checks keyed by name in result order.
func jsonTarget(r *targetReport) any {
	families := newOrderedObject()
	for _, key := range familyKeys(r) {
		families.set(key, r.Families[key])
	}
	dict := checks.AsSimpleDict(r.Results)
	results := newOrderedObject()
	for _, res := range r.Results {
		results.set(res.Name, dict[res.Name])
	}

	doc := newOrderedObject()
	doc.set("families", families)
	doc.set("checks", results)
	if len(r.Warnings) > 0 {
		doc.set("warnings", r.Warnings)
	}
	if r.Error != "" {
		doc.set("error", r.Error)
	}
	return doc
}

// familyKeys sorts family keys by (order, key).
func familyKeys(r *targetReport) []string {
	keys := make([]string, 0, len(r.Families))
	for k := range r.Families {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, oj := r.Families[keys[i]].Order, r.Families[keys[j]].Order
		if oi != oj {
			return oi < oj
		}
		return keys[i] < keys[j]
	})
	return keys
}

// writeJSON writes a single target as {"families", "checks"}; several targets
// are keyed by target in the order they ran.
func writeJSON(w io.Writer, reports []*targetReport) error {
	var doc any
	if len(reports) == 1 {
		doc = jsonTarget(reports[0])
	} else {
		all := newOrderedObject()
		for _, r := range reports {
			all.set(r.Target, jsonTarget(r))
		}
		doc = all
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return flushIfPossible(w)
}
