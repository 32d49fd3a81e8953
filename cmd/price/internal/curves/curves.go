// Package curves implements `price curves`, which publishes snapshot curves to the Redis
// update streams and reports how the streamed curves differ from a snapshot.
package curves

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/genarionogueira/val-risk-platform/cmd/price/internal/cli"
	"github.com/genarionogueira/val-risk-platform/logger"
	"github.com/genarionogueira/val-risk-platform/marketdata"
)

// Published is one curve appended to its stream.
type Published struct {
	Curve string `json:"curve"`
	ID    string `json:"id"`
}

const timeout = 10 * time.Second

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}
	action := strings.ToLower(strings.TrimSpace(args[0]))
	if action == "-h" || action == "--help" || action == "help" {
		usage(stdout)
		return 0
	}
	if action != "publish" && action != "diff" {
		fmt.Fprintf(stderr, "unknown curves action %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	fs := flag.NewFlagSet("curves "+action, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config path (optional)")
	marketPath := fs.String("market", "", "market snapshot file (.json or YAML); defaults to the sample market")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	mkt := marketdata.SampleMarket()
	if p := strings.TrimSpace(*marketPath); p != "" {
		var err error
		if mkt, err = marketdata.LoadSnapshot(p); err != nil {
			return cli.WriteError(stdout, err.Error())
		}
	}

	rt, err := cli.Setup("curves", cli.Options{Config: *configPath, Redis: true})
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}
	defer rt.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if action == "publish" {
		return publish(ctx, rt, mkt, stdout)
	}
	_, updates, err := rt.Streams().Refresh(ctx, mkt)
	if err != nil {
		return cli.WriteError(stdout, err.Error())
	}
	if updates == nil {
		updates = []marketdata.CurveUpdate{}
	}
	return cli.WriteJSON(stdout, struct {
		Updates []marketdata.CurveUpdate `json:"updates"`
	}{Updates: updates})
}

func publish(ctx context.Context, rt *cli.Runtime, mkt marketdata.MarketInput, stdout io.Writer) int {
	out := make([]Published, 0, len(mkt.Curves))
	for _, c := range mkt.Curves {
		id, err := rt.Streams().Publish(ctx, c)
		if err != nil {
			return cli.WriteError(stdout, err.Error())
		}
		rt.Log.WithFields(logger.Fields{"curve": c.Name, "entry": id}).Info("published curve")
		out = append(out, Published{Curve: c.Name, ID: id})
	}
	return cli.WriteJSON(stdout, struct {
		Published []Published `json:"published"`
	}{Published: out})
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: price curves <publish|diff> [-market snapshot.yaml] [-config cfg.yaml]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  publish  append every zero curve of the snapshot to its curve_updates:<name> stream")
	fmt.Fprintln(w, "  diff     show per-pillar moves from the snapshot to the latest streamed curves")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The Redis address comes from redis.addr in the config or REDIS_ADDR.")
}
