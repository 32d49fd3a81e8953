// Package cli holds the plumbing shared by the price subcommands: flags, input, output and runtime setup.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/genarionogueira/val-risk-platform/config"
	"github.com/genarionogueira/val-risk-platform/logger"
	"github.com/genarionogueira/val-risk-platform/marketdata"
	"github.com/genarionogueira/val-risk-platform/metrics"
	"github.com/genarionogueira/val-risk-platform/pricing"
	"github.com/genarionogueira/val-risk-platform/service"
)

// MoneyPlaces is the number of decimals kept for money amounts in output.
const MoneyPlaces = 2

// Options are the flags every pricing subcommand accepts.
type Options struct {
	Input       string
	Config      string
	MetricsAddr string
	Table       bool
	Redis       bool
	Help        bool
}

// Register adds the common flags to fs.
func (o *Options) Register(fs *flag.FlagSet) {
	fs.StringVar(&o.Input, "input", "", "JSON input path (optional; if set, ignores stdin)")
	fs.StringVar(&o.Config, "config", "", "YAML config path (optional)")
	fs.StringVar(&o.MetricsAddr, "metrics-addr", "", "serve /metrics on this address while running")
	fs.BoolVar(&o.Table, "table", false, "render a table instead of JSON")
	fs.BoolVar(&o.Redis, "redis", false, "refresh curves from the latest Redis stream entries before pricing")
	fs.BoolVar(&o.Help, "h", false, "Show help")
	fs.BoolVar(&o.Help, "help", false, "Show help")
}

// Interactive reports whether stdin is a terminal and no -input was given.
func (o Options) Interactive(stdin io.Reader) bool {
	if strings.TrimSpace(o.Input) != "" {
		return false
	}
	f, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	return err == nil && (stat.Mode()&os.ModeCharDevice) != 0
}

// ReadInput reads path when set, stdin otherwise.
func ReadInput(stdin io.Reader, path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

// Decode parses a JSON request, rejecting unknown fields.
func Decode(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// WriteError prints {"error": msg} to stdout and returns exit code 1.
func WriteError(stdout io.Writer, msg string) int {
	out, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})
	fmt.Fprintln(stdout, string(out))
	return 1
}

// WriteJSON prints v as one JSON line and returns exit code 0.
func WriteJSON(stdout io.Writer, v interface{}) int {
	out, err := json.Marshal(v)
	if err != nil {
		return WriteError(stdout, fmt.Sprintf("failed to encode output: %v", err))
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}

// Round rounds a money amount half away from zero.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(MoneyPlaces).Float64()
	return f
}

// RoundPtr is Round for optional values.
func RoundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round(*v)
	return &r
}

// Money formats v with thousands separators for tables.
func Money(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(MoneyPlaces)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// RoundResult rounds every amount in r to MoneyPlaces.
func RoundResult(r service.PricingResult) service.PricingResult {
	out := service.PricingResult{NPV: Round(r.NPV)}
	if r.RiskMeasures != nil {
		out.RiskMeasures = &service.RiskMeasures{
			PV01:    RoundPtr(r.RiskMeasures.PV01),
			FXDelta: RoundPtr(r.RiskMeasures.FXDelta),
			CS01:    RoundPtr(r.RiskMeasures.CS01),
		}
	}
	return out
}

// RenderResult writes a two-column table for one pricing result.
func RenderResult(w io.Writer, title string, r service.PricingResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	t.AppendRow(table.Row{"NPV", Money(r.NPV)})
	if rm := r.RiskMeasures; rm != nil {
		t.AppendSeparator()
		for _, m := range []struct {
			name string
			v    *float64
		}{{"PV01", rm.PV01}, {"FX delta", rm.FXDelta}, {"CS01", rm.CS01}} {
			if m.v != nil {
				t.AppendRow(table.Row{m.name, Money(*m.v)})
			}
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 10, Align: text.AlignLeft},
		{Number: 2, WidthMin: 18, Align: text.AlignRight},
	})
	t.Render()
}

// Runtime is the configured process state a subcommand prices with.
type Runtime struct {
	Config  config.Config
	Log     *logger.Entry
	Service *service.Service

	registry *prometheus.Registry
	server   *http.Server
	streams  *marketdata.StreamSource
}

// Setup loads configuration, configures logging and metrics, and builds the pricing service.
func Setup(name string, o Options) (*Runtime, error) {
	cfg, err := config.Load(o.Config)
	if err != nil {
		return nil, err
	}
	if o.MetricsAddr != "" {
		cfg.MetricsAddr = o.MetricsAddr
	}
	config.SetConfig(cfg)

	if err := logger.GetLogger().Configure(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.MaxSizeMB); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	engine := pricing.NewDefaultEngine().WithObserver(pricing.Observers{pricing.NewLogObserver(), collector})

	rt := &Runtime{
		Config:   cfg,
		Log:      logger.GetLogger().WithComponent("cli").WithFields(logger.Fields{"command": name}),
		Service:  service.New(engine, collector),
		registry: reg,
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		rt.server = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := rt.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				rt.Log.WithError(err).Error("metrics server stopped")
			}
		}()
		rt.Log.WithFields(logger.Fields{"addr": cfg.MetricsAddr}).Info("serving metrics")
	}

	if o.Redis {
		client := marketdata.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		rt.streams = marketdata.NewStreamSource(client, cfg.Redis.StreamPrefix)
	}
	return rt, nil
}

// Refresh replaces the curves of in with their latest streamed versions when -redis is set.
func (rt *Runtime) Refresh(ctx context.Context, in marketdata.MarketInput) (marketdata.MarketInput, error) {
	if rt.streams == nil {
		return in, nil
	}
	out, updates, err := rt.streams.Refresh(ctx, in)
	if err != nil {
		return in, err
	}
	rt.Log.WithFields(logger.Fields{"updated_curves": len(updates)}).Info("refreshed market from streams")
	return out, nil
}

// Streams returns the Redis stream source, or nil when -redis is not set.
func (rt *Runtime) Streams() *marketdata.StreamSource {
	return rt.streams
}

// Gatherer exposes the runtime's metrics registry.
func (rt *Runtime) Gatherer() prometheus.Gatherer {
	return rt.registry
}

// Close stops the metrics server, if any.
func (rt *Runtime) Close() {
	if rt.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = rt.server.Shutdown(ctx)
}
