package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Reserved record keys for the score statistics.
const (
	KeyAverageScore     = "Average Score"
	KeyHighScore        = "High Score"
	KeyTotalInspections = "Total Inspections"
)

// Metadata labels read by the map output.
const (
	LabelBusinessName = "Business Name"
	LabelAddress      = "Address"
)

// Mapping is an insertion-ordered multimap from a metadata label to its values.
// The zero value is ready to use.
type Mapping struct {
	keys   []string
	values map[string][]string
}

// Add appends value under key, creating the key on first use.
func (m *Mapping) Add(key, value string) {
	if m.values == nil {
		m.values = make(map[string][]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
}

// Keys returns the labels in first-occurrence order.
func (m Mapping) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Values returns the values stored under key, in row order.
func (m Mapping) Values(key string) []string {
	return append([]string(nil), m.values[key]...)
}

// Has reports whether key holds at least one value.
func (m Mapping) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Joined returns the values under key joined with single spaces.
func (m Mapping) Joined(key string) string {
	return strings.Join(m.values[key], " ")
}

// Len returns the number of distinct labels.
func (m Mapping) Len() int {
	return len(m.keys)
}

// ScoreStats summarizes the inspection history of one restaurant.
type ScoreStats struct {
	Average float64
	High    int
	Count   int
}

// Fields returns the statistics under their reserved record keys.
func (s ScoreStats) Fields() map[string]any {
	return map[string]any{
		KeyAverageScore:     s.Average,
		KeyHighScore:        s.High,
		KeyTotalInspections: s.Count,
	}
}

var scoreKeys = []string{KeyAverageScore, KeyHighScore, KeyTotalInspections}

// IsReserved reports whether key is one of the score statistic keys.
func IsReserved(key string) bool {
	for _, k := range scoreKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Record is one restaurant: its metadata merged with its score statistics.
// Score keys shadow metadata labels of the same name.
type Record struct {
	ID       string // id attribute of the source block, e.g. "PR0012345~"
	Metadata Mapping
	Scores   ScoreStats
}

// Keys returns the flat record keys: metadata labels in first-occurrence
// order, then the three score keys.
func (r Record) Keys() []string {
	keys := make([]string, 0, r.Metadata.Len()+len(scoreKeys))
	for _, k := range r.Metadata.keys {
		if !IsReserved(k) {
			keys = append(keys, k)
		}
	}
	return append(keys, scoreKeys...)
}

// Get returns the flat value for key. Metadata values are []string, score
// values are float64 (average) or int (high, total).
func (r Record) Get(key string) (any, bool) {
	if IsReserved(key) {
		return r.Scores.Fields()[key], true
	}
	if !r.Metadata.Has(key) {
		return nil, false
	}
	return r.Metadata.Values(key), true
}

// MarshalJSON encodes the record as one flat object in Keys order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		v, _ := r.Get(k)
		vb, err := json.Marshal(v)
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

// Restaurant holds the stored, flattened view of a Record.
type Restaurant struct {
	BlockID          string
	BusinessName     string
	Address          string
	AverageScore     float64
	HighScore        int
	TotalInspections int
	Metadata         string // JSON of the full record
	Latitude         float64
	Longitude        float64
	Located          bool
}

// NewRestaurant flattens rec for storage. The caller sets the location.
func NewRestaurant(rec Record) (Restaurant, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return Restaurant{}, err
	}
	return Restaurant{
		BlockID:          rec.ID,
		BusinessName:     rec.Metadata.Joined(LabelBusinessName),
		Address:          rec.Metadata.Joined(LabelAddress),
		AverageScore:     rec.Scores.Average,
		HighScore:        rec.Scores.High,
		TotalInspections: rec.Scores.Count,
		Metadata:         string(raw),
	}, nil
}
