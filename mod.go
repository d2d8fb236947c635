// Package suffrage implements a single-election voting workflow. The election
// is a native contract executed by a single authoritative executor: an
// administrator drives the workflow through its phases while registered
// voters submit proposals and cast ballots, and the contract finally selects
// a plurality winner.
//
// The contract lives in contracts/election and only knows about the
// abstractions defined under core/: a store snapshot for its state, a
// transaction carrying the authenticated caller identity and the command
// arguments, and an access service gating the contract as a whole.
package suffrage

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var logout = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	With().Caller().Logger().
	Level(zerolog.InfoLevel)

// PromCollectors collects the prometheus collectors of every package. Each
// package appends its collectors from an init function, and the caller-facing
// layer registers them to its registry if it exposes metrics.
var PromCollectors []prometheus.Collector
