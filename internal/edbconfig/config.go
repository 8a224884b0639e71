// Package edbconfig holds the small set of knobs the replay core and RPC
// facade need at startup (spec §10.3; Open Question OQ-1 in DESIGN.md:
// command-line flags and this in-process struct only, no environment
// variables and no config file). It is grounded on specopscli.go's pattern of binding cobra
// flags directly to local variables rather than a parsed struct, generalized
// here into a struct because cmd/edb's surface has more knobs than the
// teacher's three-command CLI.
package edbconfig

import (
	"fmt"
	"math/big"
	"time"
)

// Config is the resolved set of settings for one edb invocation.
type Config struct {
	// RPCEndpoint is the archival node edb forks state from (archive.Source).
	RPCEndpoint string

	// ListenAddr is the address the RPC facade (C12) listens on, empty to
	// disable serving and run a one-shot replay instead.
	ListenAddr string

	// BlockNumber/TxIndex identify the Target transaction (spec §4.7).
	BlockNumber *big.Int
	TxIndex     uint

	// ChainID selects the signer used to re-apply preceding transactions.
	ChainID *big.Int

	// ReplayTimeout is a time limit for one full replay. Default sets it to
	// two minutes; no code in this module reads it, so a replay runs
	// without a deadline.
	ReplayTimeout time.Duration

	// EvalTimeout is a time limit for a single expression evaluation.
	// Default sets it to five seconds; no code in this module reads it, so
	// evaluations run without a deadline.
	EvalTimeout time.Duration

	// AnalysisWorkers is a worker count for per-file C1-C6 analysis. No code
	// in this module reads it; the analysis pool takes its worker count as
	// an argument instead.
	AnalysisWorkers int
}

// Validate checks the fields Replay actually requires before use.
func (c Config) Validate() error {
	if c.RPCEndpoint == "" {
		return fmt.Errorf("edbconfig: rpc endpoint is required")
	}
	if c.BlockNumber == nil {
		return fmt.Errorf("edbconfig: block number is required")
	}
	if c.ChainID == nil {
		return fmt.Errorf("edbconfig: chain id is required")
	}
	return nil
}

// Default returns a Config with the teacher-style conservative defaults:
// no RPC endpoint (must be supplied), mainnet chain id, and generous but
// finite timeouts.
func Default() Config {
	return Config{
		ChainID:         big.NewInt(1),
		ReplayTimeout:   2 * time.Minute,
		EvalTimeout:     5 * time.Second,
		AnalysisWorkers: 0,
	}
}
