package config

import "github.com/pkg/errors"

const (
	// proposal names are bytes32 values
	DefaultMaxProposalNameLength = 32
	DefaultMaxDelegationDepth    = 1000
	DefaultResultsPrecision      = 4
)

type BallotConfig struct {
	// StrictNames rejects proposal names longer than MaxProposalNameLength bytes
	StrictNames           bool
	MaxProposalNameLength int
	// MaxDelegationDepth bounds the number of hops followed while resolving a delegate, 0 means unbounded
	MaxDelegationDepth int
	ResultsPrecision   int32
}

func GetDefaultBallotConfig() *BallotConfig {
	return &BallotConfig{
		StrictNames:           true,
		MaxProposalNameLength: DefaultMaxProposalNameLength,
		MaxDelegationDepth:    DefaultMaxDelegationDepth,
		ResultsPrecision:      DefaultResultsPrecision,
	}
}

func (c *BallotConfig) validate() error {
	if c.StrictNames && c.MaxProposalNameLength <= 0 {
		return errors.New("max proposal name length should be positive when strict names are enabled")
	}
	if c.MaxDelegationDepth < 0 {
		return errors.New("max delegation depth should not be negative")
	}
	if c.ResultsPrecision < 0 {
		return errors.New("results precision should not be negative")
	}
	return nil
}
