package common

import (
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

const defaultStatusPoll = 500 * time.Millisecond

type ClientOptions struct {
	Commitment rpc.CommitmentType
	StatusPoll time.Duration
}

type ClientOption func(opts *ClientOptions) error

func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		Commitment: rpc.CommitmentConfirmed,
		StatusPoll: defaultStatusPoll,
	}
}

func OptionCommitment(commitment rpc.CommitmentType) ClientOption {
	return func(opts *ClientOptions) error {
		switch commitment {
		case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
			opts.Commitment = commitment
			return nil
		}
		return errors.Errorf("unsupported commitment level: %q", commitment)
	}
}

func OptionStatusPoll(interval time.Duration) ClientOption {
	return func(opts *ClientOptions) error {
		if interval <= 0 {
			return errors.New("status poll interval must be positive")
		}
		opts.StatusPoll = interval
		return nil
	}
}
