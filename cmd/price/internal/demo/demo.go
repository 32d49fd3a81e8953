// Package demo implements `price demo`, a valuation report on the bundled sample market.
package demo

import (
	"flag"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/genarionogueira/val-risk-platform/cmd/price/internal/cli"
	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/marketdata"
	"github.com/genarionogueira/val-risk-platform/service"
)

// Line is one priced trade of the report.
type Line struct {
	Trade  string                `json:"trade"`
	Type   string                `json:"type"`
	Result service.PricingResult `json:"result"`
}

// Market extends the sample USD curve with a EUR curve, a corporate hazard curve and EURUSD spot.
func Market() marketdata.MarketInput {
	m := marketdata.SampleMarket()
	m.Curves = append(m.Curves, marketdata.CurveInput{
		Name:        "EUR_DISC",
		Pillars:     []float64{0.5, 1, 2, 5, 10},
		ZeroRatesCC: []float64{0.030, 0.029, 0.028, 0.027, 0.027},
	})
	m.HazardCurves = append(m.HazardCurves, marketdata.HazardCurveInput{
		Name:        "CORP_HAZ",
		Pillars:     []float64{1, 3, 5, 10},
		HazardRates: []float64{0.010, 0.014, 0.018, 0.022},
	})
	m.FXSpot = append(m.FXSpot, marketdata.FXSpotInput{Pair: "EURUSD", Spot: 1.08})
	return m
}

// Report prices the demo portfolio through svc.
func Report(svc *service.Service, mkt marketdata.MarketInput) ([]Line, error) {
	pv01 := service.PV01Options{CalculatePV01: true}
	var lines []Line
	add := func(trade, typ string, res service.PricingResult, err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", trade, err)
		}
		lines = append(lines, Line{Trade: trade, Type: typ, Result: res})
		return nil
	}

	res, err := svc.PriceZeroCouponBond(service.BondRequest{
		Bond:        instruments.ZeroCouponBond{Curve: "USD_DISC", Maturity: 2, Notional: 1_000_000},
		Market:      mkt,
		PV01Options: pv01,
	})
	if err := add("2Y zero 1mm", instruments.TypeZeroCouponBond, res, err); err != nil {
		return nil, err
	}

	res, err = svc.PriceSwap(service.SwapRequest{
		Swap:        instruments.FixedFloatSwap{Curve: "USD_DISC", Notional: 10_000_000, FixedRate: 0.04, PayTimes: []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5}},
		Market:      mkt,
		PV01Options: pv01,
	})
	if err := add("5Y swap rec float 10mm", instruments.TypeFixedFloatSwap, res, err); err != nil {
		return nil, err
	}

	res, err = svc.PriceFXForward(service.FXForwardRequest{
		Forward:          instruments.FXForward{Pair: "EURUSD", BaseCurve: "EUR_DISC", QuoteCurve: "USD_DISC", Maturity: 1, NotionalBase: 5_000_000, Strike: 1.09},
		Market:           mkt,
		PV01Options:      pv01,
		CalculateFXDelta: true,
	})
	if err := add("1Y EURUSD fwd 5mm", instruments.TypeFXForward, res, err); err != nil {
		return nil, err
	}

	res, err = svc.PriceMortgage(service.MortgageRequest{
		Mortgage:    instruments.LevelPayMortgage{Curve: "USD_DISC", Notional: 500_000, AnnualRate: 0.06, TermYears: 10, PaymentsPerYear: 12},
		Market:      mkt,
		PV01Options: pv01,
	})
	if err := add("10Y mortgage 500k", instruments.TypeLevelPayMortgage, res, err); err != nil {
		return nil, err
	}

	res, err = svc.PriceCDS(service.CDSRequest{
		CDS:           instruments.NewCDS("USD_DISC", "CORP_HAZ", 10_000_000, 0.01, []float64{1, 2, 3, 4, 5}),
		Market:        mkt,
		CalculateCS01: true,
	})
	if err := add("5Y CDS buy 10mm", instruments.TypeCDS, res, err); err != nil {
		return nil, err
	}
	return lines, nil
}

func Run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts cli.Options
	opts.Register(fs)
	asJSON := fs.Bool("json", false, "print JSON instead of tables")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if opts.Help {
		fmt.Fprintln(stderr, "Usage: price demo [-json] [-config cfg.yaml]")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Price a sample portfolio on the bundled sample market.")
		return 0
	}

	rt, err := cli.Setup("demo", opts)
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}
	defer rt.Close()

	mkt := Market()
	lines, err := Report(rt.Service, mkt)
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}
	for i := range lines {
		lines[i].Result = cli.RoundResult(lines[i].Result)
	}

	if *asJSON {
		return cli.WriteJSON(stdout, lines)
	}
	renderCurves(stdout, mkt)
	renderReport(stdout, lines)
	return 0
}

func renderCurves(w io.Writer, mkt marketdata.MarketInput) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("MARKET")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Curve", "Pillars", "Rates"})
	for _, c := range mkt.Curves {
		t.AppendRow(table.Row{c.Name, fmt.Sprint(c.Pillars), fmt.Sprint(c.ZeroRatesCC)})
	}
	for _, h := range mkt.HazardCurves {
		t.AppendRow(table.Row{h.Name + " (hazard)", fmt.Sprint(h.Pillars), fmt.Sprint(h.HazardRates)})
	}
	t.AppendSeparator()
	for _, s := range mkt.FXSpot {
		t.AppendRow(table.Row{s.Pair + " spot", "", s.Spot})
	}
	t.Render()
	fmt.Fprintln(w)
}

func renderReport(w io.Writer, lines []Line) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("VALUATION")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Trade", "Instrument", "NPV", "PV01", "FX delta", "CS01"})
	for _, l := range lines {
		row := table.Row{l.Trade, l.Type, cli.Money(l.Result.NPV), "", "", ""}
		if rm := l.Result.RiskMeasures; rm != nil {
			for i, v := range []*float64{rm.PV01, rm.FXDelta, rm.CS01} {
				if v != nil {
					row[3+i] = cli.Money(*v)
				}
			}
		}
		t.AppendRow(row)
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	t.Render()
}
