package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/okian/launchdash/internal/domain/model"
)

// Required CSV header names.
const (
	ColumnSite    = "Launch Site"
	ColumnPayload = "Payload Mass (kg)"
	ColumnBooster = "Booster Version Category"
	ColumnClass   = "class"
)

// Load reads the launch table from the CSV file at path.
func Load(ctx context.Context, path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer func() { _ = f.Close() }()
	return Parse(ctx, f)
}

// Parse reads the launch table from CSV. Columns are located by header name;
// any extra columns are ignored. The first malformed row aborts the load.
func Parse(ctx context.Context, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedRow, err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var records []model.LaunchRecord
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		rec, err := cols.record(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		records = append(records, rec)
	}
	return New(records)
}

type columns struct {
	site, payload, booster, class int
}

func locateColumns(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	var c columns
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{ColumnSite, &c.site},
		{ColumnPayload, &c.payload},
		{ColumnBooster, &c.booster},
		{ColumnClass, &c.class},
	} {
		i, ok := pos[want.name]
		if !ok {
			return columns{}, fmt.Errorf("%w: %q", ErrMissingColumn, want.name)
		}
		*want.dst = i
	}
	return c, nil
}

func (c columns) record(row []string) (model.LaunchRecord, error) {
	field := func(i int) (string, error) {
		if i >= len(row) {
			return "", fmt.Errorf("expected at least %d fields, got %d", i+1, len(row))
		}
		return strings.TrimSpace(row[i]), nil
	}

	site, err := field(c.site)
	if err != nil {
		return model.LaunchRecord{}, err
	}
	if site == "" {
		return model.LaunchRecord{}, errors.New("empty launch site")
	}
	booster, err := field(c.booster)
	if err != nil {
		return model.LaunchRecord{}, err
	}
	rawPayload, err := field(c.payload)
	if err != nil {
		return model.LaunchRecord{}, err
	}
	payload, err := strconv.ParseFloat(rawPayload, 64)
	if err != nil {
		return model.LaunchRecord{}, fmt.Errorf("payload %q: %w", rawPayload, err)
	}
	if math.IsNaN(payload) || math.IsInf(payload, 0) {
		return model.LaunchRecord{}, fmt.Errorf("payload %q is not finite", rawPayload)
	}
	rawClass, err := field(c.class)
	if err != nil {
		return model.LaunchRecord{}, err
	}
	class, err := parseClass(rawClass)
	if err != nil {
		return model.LaunchRecord{}, err
	}
	return model.LaunchRecord{
		Site:            site,
		PayloadMassKg:   payload,
		BoosterCategory: booster,
		Class:           class,
	}, nil
}

// parseClass accepts 0/1 written as integers or as whole floats ("1.0").
func parseClass(raw string) (int, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("class %q: %w", raw, err)
	}
	switch v {
	case model.ClassFailure:
		return model.ClassFailure, nil
	case model.ClassSuccess:
		return model.ClassSuccess, nil
	}
	return 0, fmt.Errorf("class %q not in {0,1}", raw)
}
