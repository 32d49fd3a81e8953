package pricing

import (
	"time"

	"github.com/genarionogueira/val-risk-platform/logger"
)

// LogObserver writes a debug line per valuation and a warning per failure.
type LogObserver struct {
	Log *logger.Entry
}

// NewLogObserver logs under the "engine" component of the global logger.
func NewLogObserver() LogObserver {
	return LogObserver{Log: logger.GetLogger().WithComponent("engine")}
}

func (o LogObserver) ObserveValuation(instrumentType string, elapsed time.Duration, err error) {
	entry := o.Log.WithFields(logger.Fields{
		"instrument": instrumentType,
		"elapsed_us": elapsed.Microseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("valuation failed")
		return
	}
	entry.Debug("valuation")
}

// Observers fans each callback out to every observer in order.
type Observers []Observer

func (obs Observers) ObserveValuation(instrumentType string, elapsed time.Duration, err error) {
	for _, o := range obs {
		o.ObserveValuation(instrumentType, elapsed, err)
	}
}
