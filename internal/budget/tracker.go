// Package budget tracks calls made against the beer provider's monthly quota.
package budget

import (
	"context"
	"fmt"
	"strconv"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"hops-cache/internal/kv"
)

// DefaultMonthlyLimit leaves headroom under the provider's 500 requests per month
const DefaultMonthlyLimit = 450

// Config configuration for the tracker
type Config struct {
	MonthlyLimit int    `mapstructure:"monthly_limit"`
	CountKey     string `mapstructure:"count_key"`
	PeriodKey    string `mapstructure:"period_key"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MonthlyLimit: DefaultMonthlyLimit,
		CountKey:     "beer_api_request_count",
		PeriodKey:    "beer_api_request_period",
	}
}

// Status is what the UI shows about remaining quota
type Status struct {
	Count     int    `json:"count"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Period    string `json:"period"`
}

// Tracker is a persisted monthly request counter. Every call re-reads the stored state;
// concurrent increments may be lost, which only undercounts.
type Tracker struct {
	store  kv.Store
	config Config
	clock  clock.Clock
	logger *zap.Logger
}

// NewTracker creates a Tracker. A nil clock means the wall clock.
func NewTracker(store kv.Store, config *Config, clk clock.Clock, logger *zap.Logger) *Tracker {
	cfg := DefaultConfig()
	if config != nil {
		if config.MonthlyLimit > 0 {
			cfg.MonthlyLimit = config.MonthlyLimit
		}
		if config.CountKey != "" {
			cfg.CountKey = config.CountKey
		}
		if config.PeriodKey != "" {
			cfg.PeriodKey = config.PeriodKey
		}
	}
	if clk == nil {
		clk = clock.New()
	}

	return &Tracker{
		store:  store,
		config: *cfg,
		clock:  clk,
		logger: logger,
	}
}

// Limit returns the monthly cap
func (t *Tracker) Limit() int {
	return t.config.MonthlyLimit
}

// CurrentPeriod returns the bucket the clock is in, formatted YYYY-M
func (t *Tracker) CurrentPeriod() string {
	now := t.clock.Now()
	return fmt.Sprintf("%d-%d", now.Year(), int(now.Month()))
}

// CanMakeRequest reports whether another provider call fits in this period's budget.
// The first check in a new period resets the counter and allows the call.
func (t *Tracker) CanMakeRequest(ctx context.Context) bool {
	period := t.CurrentPeriod()

	stored, found, err := t.store.Get(ctx, t.config.PeriodKey)
	switch {
	case err != nil:
		t.logger.Warn("failed to read budget period, allowing request", zap.Error(err))
		return true
	case !found:
		// a counter written before periods were tracked belongs to the current period
		if err := t.store.Set(ctx, t.config.PeriodKey, period); err != nil {
			t.logger.Error("failed to store budget period", zap.Error(err))
		}
	case stored != period:
		t.reset(ctx, period)
		return true
	}

	count := t.Count(ctx)
	if count >= t.config.MonthlyLimit {
		t.logger.Warn("monthly request budget exhausted",
			zap.Int("count", count),
			zap.Int("limit", t.config.MonthlyLimit))
		return false
	}
	return true
}

// RecordRequest increments the persisted counter by one
func (t *Tracker) RecordRequest(ctx context.Context) {
	next := t.Count(ctx) + 1
	if err := t.store.Set(ctx, t.config.CountKey, strconv.Itoa(next)); err != nil {
		t.logger.Error("failed to record request", zap.Error(err))
		return
	}
	t.logger.Debug("provider request recorded", zap.Int("count", next))
}

// Count returns the persisted count, or 0 when unset or unreadable
func (t *Tracker) Count(ctx context.Context) int {
	raw, found, err := t.store.Get(ctx, t.config.CountKey)
	if err != nil {
		t.logger.Warn("failed to read request count, assuming zero", zap.Error(err))
		return 0
	}
	if !found {
		return 0
	}

	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		t.logger.Warn("request count is not a number, assuming zero", zap.String("value", raw))
		return 0
	}
	return count
}

// Status reports usage for display
func (t *Tracker) Status(ctx context.Context) Status {
	count := t.Count(ctx)
	remaining := t.config.MonthlyLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Count:     count,
		Limit:     t.config.MonthlyLimit,
		Remaining: remaining,
		Period:    t.CurrentPeriod(),
	}
}

func (t *Tracker) reset(ctx context.Context, period string) {
	if err := t.store.Set(ctx, t.config.CountKey, "0"); err != nil {
		t.logger.Error("failed to reset request count", zap.Error(err))
	}
	if err := t.store.Set(ctx, t.config.PeriodKey, period); err != nil {
		t.logger.Error("failed to store budget period", zap.Error(err))
	}
	t.logger.Info("request budget reset for new period", zap.String("period", period))
}
