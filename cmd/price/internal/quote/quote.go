// Package quote implements the single-trade subcommands: bond, swap, fx, mortgage and cds.
package quote

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/genarionogueira/val-risk-platform/cmd/price/internal/cli"
	"github.com/genarionogueira/val-risk-platform/marketdata"
	"github.com/genarionogueira/val-risk-platform/service"
)

type command struct {
	title   string
	example string
	run     func(ctx context.Context, rt *cli.Runtime, data []byte) (service.PricingResult, error)
}

var commands = map[string]command{
	"bond": {
		title:   "Zero-coupon bond",
		example: `{"bond":{"curve":"USD_DISC","maturity":2,"notional":1000000},"market":{...},"calculate_pv01":true}`,
		run: handler(func(r *service.BondRequest) *marketdata.MarketInput { return &r.Market },
			(*service.Service).PriceZeroCouponBond),
	},
	"swap": {
		title:   "Fixed-float swap",
		example: `{"swap":{"curve":"USD_DISC","notional":1e7,"fixed_rate":0.04,"pay_times":[0.5,1,1.5,2]},"market":{...}}`,
		run: handler(func(r *service.SwapRequest) *marketdata.MarketInput { return &r.Market },
			(*service.Service).PriceSwap),
	},
	"fx": {
		title:   "FX forward",
		example: `{"forward":{"pair":"EURUSD","base_curve":"EUR_DISC","quote_curve":"USD_DISC","maturity":1,"notional_base":1e6,"strike":1.09},"market":{...},"calculate_fx_delta":true}`,
		run: handler(func(r *service.FXForwardRequest) *marketdata.MarketInput { return &r.Market },
			(*service.Service).PriceFXForward),
	},
	"mortgage": {
		title:   "Level-pay mortgage",
		example: `{"mortgage":{"curve":"USD_DISC","notional":500000,"annual_rate":0.06,"term_years":30,"payments_per_year":12},"market":{...}}`,
		run: handler(func(r *service.MortgageRequest) *marketdata.MarketInput { return &r.Market },
			(*service.Service).PriceMortgage),
	},
	"cds": {
		title:   "Credit default swap",
		example: `{"cds":{"discount_curve":"USD_DISC","survival_curve":"CORP_HAZ","notional":1e7,"premium_rate":0.01,"pay_times":[1,2,3]},"market":{...},"calculate_cs01":true}`,
		run: handler(func(r *service.CDSRequest) *marketdata.MarketInput { return &r.Market },
			(*service.Service).PriceCDS),
	},
}

// Commands lists the subcommand names this package serves.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// handler decodes a request of type R, refreshes its market and prices it.
func handler[R any](
	marketOf func(*R) *marketdata.MarketInput,
	price func(*service.Service, R) (service.PricingResult, error),
) func(context.Context, *cli.Runtime, []byte) (service.PricingResult, error) {
	return func(ctx context.Context, rt *cli.Runtime, data []byte) (service.PricingResult, error) {
		var req R
		if err := cli.Decode(data, &req); err != nil {
			return service.PricingResult{}, fmt.Errorf("failed to parse JSON input: %v", err)
		}
		mkt := marketOf(&req)
		refreshed, err := rt.Refresh(ctx, *mkt)
		if err != nil {
			return service.PricingResult{}, fmt.Errorf("failed to refresh market: %v", err)
		}
		*mkt = refreshed
		return price(rt.Service, req)
	}
}

// Run prices one trade of the given kind.
func Run(kind string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd, ok := commands[kind]
	if !ok {
		fmt.Fprintf(stderr, "unknown instrument %q\n", kind)
		return 2
	}

	fs := flag.NewFlagSet(kind, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts cli.Options
	opts.Register(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if opts.Help {
		usage(stderr, kind, cmd)
		return 0
	}
	if opts.Interactive(stdin) {
		usage(stderr, kind, cmd)
		return 2
	}

	data, err := cli.ReadInput(stdin, opts.Input)
	if err != nil {
		return cli.WriteError(stdout, fmt.Sprintf("failed to read input: %v", err))
	}

	rt, err := cli.Setup(kind, opts)
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}
	defer rt.Close()

	res, err := cmd.run(context.Background(), rt, data)
	if err != nil {
		rt.Log.WithError(err).Debug("pricing failed")
		return cli.WriteError(stdout, err.Error())
	}
	res = cli.RoundResult(res)
	if opts.Table {
		cli.RenderResult(stdout, strings.ToUpper(cmd.title), res)
		return 0
	}
	return cli.WriteJSON(stdout, res)
}

func usage(w io.Writer, kind string, cmd command) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  price %s < request.json\n", kind)
	fmt.Fprintf(w, "  price %s -input /path/to/request.json [-table] [-redis] [-config cfg.yaml]\n", kind)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Price a %s and print the NPV and requested risk as JSON.\n", strings.ToLower(cmd.title))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Example request:")
	fmt.Fprintf(w, "  %s\n", cmd.example)
}
