package main

import (
	"fmt"
	"log"

	"github.com/genarionogueira/val-risk-platform/instruments"
	"github.com/genarionogueira/val-risk-platform/marketdata"
	"github.com/genarionogueira/val-risk-platform/pricing"
	"github.com/genarionogueira/val-risk-platform/risk"
)

func main() {
	mkt, err := marketdata.SampleMarket().Build()
	if err != nil {
		log.Fatal(err)
	}

	bond := instruments.ZeroCouponBond{
		Curve:    "USD_DISC",
		Maturity: 2,
		Notional: 1_000_000,
	}

	npv, err := pricing.Price(bond, mkt)
	if err != nil {
		log.Fatal(err)
	}
	pv01, err := risk.PV01(bond, mkt, "USD_DISC", 1)
	if err != nil {
		log.Fatal(err)
	}

	swap := instruments.FixedFloatSwap{
		Curve:    "USD_DISC",
		Notional: 10_000_000,
		PayTimes: []float64{0.5, 1, 1.5, 2},
	}
	par, err := pricing.SwapParRate(swap, mkt)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("2Y zero NPV: %.2f\n", npv)
	fmt.Printf("2Y zero PV01: %.2f\n", pv01)
	fmt.Printf("2Y swap par rate: %.4f%%\n", par*100)
}
