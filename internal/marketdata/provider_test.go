package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/quantfold/fxlab/internal/core"
)

type fakeProvider struct {
	name string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(ctx context.Context, symbol string, tf core.Timeframe, start, end time.Time) ([]core.Candle, error) {
	return nil, core.ErrNoData
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{name: "yahoo"})

	p, ok := r.Get("yahoo")
	if !ok {
		t.Fatal("expected provider to be registered")
	}
	if p.Name() != "yahoo" {
		t.Errorf("expected 'yahoo', got '%s'", p.Name())
	}
}

func TestRegistry_GetMissing(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("nope"); ok {
		t.Error("expected lookup of unregistered provider to fail")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeProvider{name: "yahoo"})
	r.Register(&fakeProvider{name: "binance"})

	names := r.Names()
	if len(names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(names))
	}
	if names[0] != "binance" || names[1] != "yahoo" {
		t.Errorf("expected sorted names [binance yahoo], got %v", names)
	}
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := NewRegistry()
	first := &fakeProvider{name: "yahoo"}
	second := &fakeProvider{name: "yahoo"}
	r.Register(first)
	r.Register(second)

	p, _ := r.Get("yahoo")
	if p != Provider(second) {
		t.Error("expected later registration to replace earlier one")
	}
}
