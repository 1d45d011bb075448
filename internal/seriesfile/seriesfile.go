// Package seriesfile reads and writes duration series documents.
//
// Documents are YAML; JSON input works as well because it is a subset of
// YAML:
//
//	series:
//	  - name: p95
//	    unit: s          # optional, values are milliseconds by default
//	    points:
//	      - {t: 2025-01-01T10:00:00Z, v: 1.25}
package seriesfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/willibrandon/tickwise/internal/axis"
	"github.com/willibrandon/tickwise/internal/metrics"
)

// ErrNoSeries is returned when a document contains no series.
var ErrNoSeries = errors.New("no series in document")

type document struct {
	Series []seriesDoc `yaml:"series"`
}

type seriesDoc struct {
	Name   string     `yaml:"name"`
	Unit   string     `yaml:"unit,omitempty"`
	Points []pointDoc `yaml:"points"`
}

type pointDoc struct {
	T time.Time `yaml:"t"`
	V float64   `yaml:"v"`
}

// Decode parses a document and converts every value to milliseconds.
func Decode(r io.Reader) ([]metrics.Series, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoSeries
		}
		return nil, fmt.Errorf("decode series: %w", err)
	}
	if len(doc.Series) == 0 {
		return nil, ErrNoSeries
	}

	out := make([]metrics.Series, 0, len(doc.Series))
	for i, sd := range doc.Series {
		if sd.Name == "" {
			return nil, fmt.Errorf("series %d: missing name", i)
		}
		unit, err := axis.ParseUnit(sd.Unit)
		if err != nil {
			return nil, fmt.Errorf("series %d (%s): %w", i, sd.Name, err)
		}
		scale := unit.Millis()

		s := metrics.Series{Name: sd.Name, Data: make([]metrics.DataPoint, len(sd.Points))}
		for j, p := range sd.Points {
			s.Data[j] = metrics.NewDataPointAt(p.T, p.V*scale)
		}
		out = append(out, s)
	}
	return out, nil
}

// Encode writes series as a YAML document with millisecond values.
func Encode(w io.Writer, series []metrics.Series) error {
	doc := document{Series: make([]seriesDoc, len(series))}
	for i, s := range series {
		sd := seriesDoc{Name: s.Name, Points: make([]pointDoc, len(s.Data))}
		for j, dp := range s.Data {
			sd.Points[j] = pointDoc{T: dp.Timestamp.UTC(), V: dp.Value}
		}
		doc.Series[i] = sd
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode series: %w", err)
	}
	return enc.Close()
}

// Load reads a series document from path.
func Load(path string) ([]metrics.Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	series, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

// Save writes series to path, replacing any existing file.
func Save(path string, series []metrics.Series) error {
	var buf bytes.Buffer
	if err := Encode(&buf, series); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
