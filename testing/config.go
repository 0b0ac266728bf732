package ibctesting

import (
	"time"
)

const (
	// Default params constants used to create a TM client
	TrustingPeriod     time.Duration = time.Hour * 24 * 7 * 2
	UnbondingPeriod    time.Duration = time.Hour * 24 * 7 * 3
	MaxClockDrift      time.Duration = time.Second * 10
	DefaultDelayPeriod uint64        = 0

	// ChainID and ChainIDRevision1 are the counterparty chain identifiers used throughout the tests.
	ChainID          = "testchain-0"
	ChainIDRevision1 = "testchain-1"
)

// Timestamps used by the tests: a fixed genesis time so that heights and times are predictable.
var (
	GenesisTime = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
)
