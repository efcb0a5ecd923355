// internal/storage/archive/reports.go
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/quantfold/fxlab/internal/backtest"
)

const reportsRoot = "reports"

// Reports stores backtest reports as JSON documents at
// reports/<symbol>/<id>.json on any Storage backend.
type Reports struct {
	storage Storage
}

// NewReports creates a report archive over the given backend.
func NewReports(storage Storage) *Reports {
	return &Reports{storage: storage}
}

// ReportPath returns the archive path for a report.
func ReportPath(symbol, id string) string {
	return path.Join(reportsRoot, symbol, id+".json")
}

// Save serializes and stores a report.
func (r *Reports) Save(ctx context.Context, symbol, id string, report *backtest.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	p := ReportPath(symbol, id)
	if err := r.storage.Write(ctx, p, data); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return p, nil
}

// Load reads a stored report back.
func (r *Reports) Load(ctx context.Context, symbol, id string) (*backtest.Report, error) {
	data, err := r.storage.Read(ctx, ReportPath(symbol, id))
	if err != nil {
		return nil, err
	}

	var report backtest.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &report, nil
}

// List returns the IDs of all stored reports for a symbol.
func (r *Reports) List(ctx context.Context, symbol string) ([]string, error) {
	paths, err := r.storage.List(ctx, path.Join(reportsRoot, symbol))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(paths))
	for _, p := range paths {
		base := path.Base(p)
		if strings.HasSuffix(base, ".json") {
			ids = append(ids, strings.TrimSuffix(base, ".json"))
		}
	}
	return ids, nil
}
