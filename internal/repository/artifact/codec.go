package artifact

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/cardiofeat/internal/domain/evaluation"
	"github.com/kailas-cloud/cardiofeat/internal/domain/normalization"
	"github.com/kailas-cloud/cardiofeat/internal/domain/schema"
)

// Blob names inside a generation.
const (
	blobParams    = "scaler_params.csv"
	blobReference = "feature_columns.csv"
	blobModel     = "model.json"
	blobMeta      = "meta.yaml"

	currentKey    = "CURRENT"
	formatVersion = 1
)

var paramsHeader = []string{"column", "mean", "scale"}

// referenceHeader matches the single unnamed column of the published feature list.
var referenceHeader = []string{"0"}

func encodeParams(p normalization.Params) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(paramsHeader); err != nil {
		return nil, err
	}
	for _, c := range p.Columns() {
		s, _ := p.Get(c)
		row := []string{
			c,
			strconv.FormatFloat(s.Mean, 'g', -1, 64),
			strconv.FormatFloat(s.Scale, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func decodeParams(data []byte) (normalization.Params, error) {
	records, err := readCSV(data, paramsHeader)
	if err != nil {
		return normalization.Params{}, err
	}
	columns := make([]string, len(records))
	stats := make([]normalization.Stat, len(records))
	for i, rec := range records {
		mean, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return normalization.Params{}, fmt.Errorf("row %d mean: %w", i+1, err)
		}
		scale, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return normalization.Params{}, fmt.Errorf("row %d scale: %w", i+1, err)
		}
		columns[i] = rec[0]
		stats[i] = normalization.Stat{Mean: mean, Scale: scale}
	}
	return normalization.New(columns, stats)
}

func encodeReference(r schema.Reference) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(referenceHeader); err != nil {
		return nil, err
	}
	for _, c := range r.Columns() {
		if err := w.Write([]string{c}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func decodeReference(data []byte) (schema.Reference, error) {
	records, err := readCSV(data, referenceHeader)
	if err != nil {
		return schema.Reference{}, err
	}
	columns := make([]string, len(records))
	for i, rec := range records {
		columns[i] = rec[0]
	}
	return schema.NewReference(columns)
}

func readCSV(data []byte, header []string) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(header)

	got, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file")
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		if got[i] != header[i] {
			return nil, fmt.Errorf("unexpected header %v, want %v", got, header)
		}
	}
	return r.ReadAll()
}

// meta is the human-readable summary written next to the model.
type meta struct {
	FormatVersion   int               `yaml:"format_version"`
	Generation      string            `yaml:"generation"`
	TrainedAt       time.Time         `yaml:"trained_at"`
	UniverseVersion string            `yaml:"universe_version"`
	Features        int               `yaml:"features"`
	Metrics         evaluation.Report `yaml:"metrics"`
}

func encodeMeta(m meta) ([]byte, error) {
	return yaml.Marshal(m)
}

func decodeMeta(data []byte) (meta, error) {
	var m meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return meta{}, err
	}
	if m.FormatVersion != formatVersion {
		return meta{}, fmt.Errorf("unsupported format version %d (expected %d)", m.FormatVersion, formatVersion)
	}
	return m, nil
}
