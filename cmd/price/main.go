package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/genarionogueira/val-risk-platform/cmd/price/internal/batch"
	"github.com/genarionogueira/val-risk-platform/cmd/price/internal/curves"
	"github.com/genarionogueira/val-risk-platform/cmd/price/internal/demo"
	"github.com/genarionogueira/val-risk-platform/cmd/price/internal/quote"
	"github.com/genarionogueira/val-risk-platform/instruments"
)

func main() {
	// .env is optional
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	cmd := strings.ToLower(strings.TrimSpace(args[0]))
	switch cmd {
	case "batch":
		return batch.Run(args[1:], stdin, stdout, stderr)
	case "demo":
		return demo.Run(args[1:], stdout, stderr)
	case "curves":
		return curves.Run(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	}

	for _, name := range quote.Commands() {
		if cmd == name {
			return quote.Run(name, args[1:], stdin, stdout, stderr)
		}
	}
	// Accept the long instrument names too, e.g. "ZeroCouponBond" or "fx_forward".
	if t, err := instruments.CanonicalType(cmd); err == nil {
		return quote.Run(shortName(t), args[1:], stdin, stdout, stderr)
	}

	fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
	usage(stderr)
	return 2
}

func shortName(instrumentType string) string {
	switch instrumentType {
	case instruments.TypeZeroCouponBond:
		return "bond"
	case instruments.TypeFixedFloatSwap:
		return "swap"
	case instruments.TypeFXForward:
		return "fx"
	case instruments.TypeLevelPayMortgage:
		return "mortgage"
	default:
		return "cds"
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: price <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  bond      Zero-coupon bond NPV and PV01")
	fmt.Fprintln(w, "  swap      Fixed-float swap NPV and PV01")
	fmt.Fprintln(w, "  fx        FX forward NPV, PV01 and FX delta")
	fmt.Fprintln(w, "  mortgage  Level-pay mortgage NPV and PV01")
	fmt.Fprintln(w, "  cds       CDS NPV and CS01")
	fmt.Fprintln(w, "  batch     Price many trades against one market")
	fmt.Fprintln(w, "  curves    Publish or diff curves on the Redis update streams")
	fmt.Fprintln(w, "  demo      Sample portfolio report")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run `price <command> -h` for command-specific help.")
}
