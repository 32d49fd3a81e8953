// Package batch implements `price batch`: many trades against one market snapshot.
package batch

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/genarionogueira/val-risk-platform/cmd/price/internal/cli"
	"github.com/genarionogueira/val-risk-platform/logger"
	"github.com/genarionogueira/val-risk-platform/marketdata"
	"github.com/genarionogueira/val-risk-platform/service"
)

// Output is the JSON document written on success.
type Output struct {
	Results []service.BatchItem `json:"results"`
	Priced  int                 `json:"priced"`
	Failed  int                 `json:"failed"`
}

func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts cli.Options
	opts.Register(fs)
	marketPath := fs.String("market", "", "market snapshot file (.json or YAML); overrides the request's market")
	workers := fs.Int("workers", 0, "concurrent valuations (default: config batch_workers, then one per CPU)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if opts.Help {
		usage(stderr)
		return 0
	}
	if opts.Interactive(stdin) {
		usage(stderr)
		return 2
	}

	data, err := cli.ReadInput(stdin, opts.Input)
	if err != nil {
		return cli.WriteError(stdout, fmt.Sprintf("failed to read input: %v", err))
	}
	var req service.BatchRequest
	if err := cli.Decode(data, &req); err != nil {
		return cli.WriteError(stdout, fmt.Sprintf("failed to parse JSON input: %v", err))
	}
	if p := strings.TrimSpace(*marketPath); p != "" {
		mkt, err := marketdata.LoadSnapshot(p)
		if err != nil {
			return cli.WriteError(stdout, err.Error())
		}
		req.Market = mkt
	}

	rt, err := cli.Setup("batch", opts)
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if req.Market, err = rt.Refresh(ctx, req.Market); err != nil {
		return cli.WriteError(stdout, fmt.Sprintf("failed to refresh market: %v", err))
	}

	n := *workers
	if n <= 0 {
		n = rt.Config.BatchWorkers
	}
	items, err := rt.Service.PriceBatch(ctx, req, n)
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}

	out := Output{Results: items}
	for i := range out.Results {
		if out.Results[i].NPV == nil {
			out.Failed++
			continue
		}
		out.Results[i].NPV = cli.RoundPtr(out.Results[i].NPV)
		out.Priced++
	}
	rt.Log.WithFields(logger.Fields{"priced": out.Priced, "failed": out.Failed}).Info("batch complete")

	if opts.Table {
		render(stdout, out)
		return 0
	}
	return cli.WriteJSON(stdout, out)
}

func render(w io.Writer, out Output) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("BATCH VALUATION")
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"ID", "Instrument", "NPV", "Error"})
	total := 0.0
	for _, it := range out.Results {
		npv := ""
		if it.NPV != nil {
			npv = cli.Money(*it.NPV)
			total += *it.NPV
		}
		t.AppendRow(table.Row{it.ID, it.Type, npv, it.Error})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d priced, %d failed", out.Priced, out.Failed), cli.Money(total), ""})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, WidthMax: 60},
	})
	t.Render()
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  price batch < batch.json")
	fmt.Fprintln(w, "  price batch -input trades.json -market snapshot.yaml [-workers 8] [-table]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Price every trade concurrently against one market. A failing trade reports its")
	fmt.Fprintln(w, "error in place and does not stop the others.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input:")
	fmt.Fprintln(w, `  {"market":{...},"trades":[{"id":"t1","type":"bond","instrument":{"curve":"USD_DISC","maturity":2,"notional":1e6}}]}`)
}
