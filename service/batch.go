package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/logger"
	"github.com/genarionogueira/val-risk-platform/marketdata"
	"github.com/genarionogueira/val-risk-platform/pricing"
)

// TradeInput is one entry of a batch request.
type TradeInput struct {
	ID         string          `json:"id,omitempty" yaml:"id,omitempty"`
	Type       string          `json:"type" yaml:"type"`
	Instrument json.RawMessage `json:"instrument" yaml:"-"`
}

// BatchRequest prices many trades against one market.
type BatchRequest struct {
	Market marketdata.MarketInput `json:"market"`
	Trades []TradeInput           `json:"trades"`
}

// BatchItem is the outcome of one trade. NPV is nil when Error is set.
type BatchItem struct {
	ID    string   `json:"id"`
	Type  string   `json:"type"`
	NPV   *float64 `json:"npv"`
	Error string   `json:"error,omitempty"`
}

// PriceBatch decodes, validates and prices every trade on up to workers goroutines.
// A bad trade yields an item with Error set; only a bad market or cancellation fails the call.
func (s *Service) PriceBatch(ctx context.Context, req BatchRequest, workers int) ([]BatchItem, error) {
	mkt, err := req.Market.Build()
	if err != nil {
		return nil, inputErr(err, "invalid market: %v", err)
	}

	items := make([]BatchItem, len(req.Trades))
	jobs := make([]pricing.Job, 0, len(req.Trades))
	slots := make([]int, 0, len(req.Trades))

	for i, tr := range req.Trades {
		items[i] = BatchItem{ID: tr.ID, Type: tr.Type}
		inst, err := instruments.Decode(tr.Type, tr.Instrument)
		if err != nil {
			items[i].Error = err.Error()
			continue
		}
		items[i].Type = inst.InstrumentType()
		if v, ok := inst.(validatable); ok {
			if err := v.Validate(); err != nil {
				items[i].Error = err.Error()
				continue
			}
		}
		jobs = append(jobs, pricing.Job{ID: tr.ID, Instrument: inst, Market: mkt})
		slots = append(slots, i)
	}

	start := time.Now()
	results, err := pricing.PriceBatch(ctx, s.engine, jobs, workers)
	for k, r := range results {
		item := &items[slots[k]]
		item.ID = r.ID
		if r.Err != nil {
			item.Error = r.Err.Error()
			continue
		}
		npv := r.NPV
		item.NPV = &npv
	}
	logger.LogDuration(s.log, "price_batch", time.Since(start), logger.Fields{
		"trades": len(req.Trades),
		"priced": len(jobs),
	})
	if err != nil {
		return items, err
	}
	return items, nil
}

// PriceBatch runs Service.PriceBatch on the default service.
func PriceBatch(ctx context.Context, req BatchRequest, workers int) ([]BatchItem, error) {
	return defaultService.PriceBatch(ctx, req, workers)
}
