package chain

import (
	"context"
	"time"

	"github.com/crashgame/sdk-go/client/common"
	log "github.com/InjectiveLabs/suplog"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

var (
	ErrBlockhashExpired = errors.New("blockhash expired before the transaction was confirmed")
	ErrEmptyBlockhash   = errors.New("rpc returned no blockhash")
)

type ChainClient interface {
	Endpoint() string
	Commitment() rpc.CommitmentType

	GetLatestBlockhash(ctx context.Context) (*rpc.LatestBlockhashResult, error)
	// SendAndConfirmTransaction submits a signed transaction and blocks until
	// it reaches the client's commitment level. A lastValidBlockHeight of
	// zero disables the expiry check.
	SendAndConfirmTransaction(ctx context.Context, tx *solana.Transaction, lastValidBlockHeight uint64) (string, error)

	Close()
}

// rpcAPI is the subset of *rpc.Client the chain client relies on.
type rpcAPI interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
	GetTransaction(ctx context.Context, sig solana.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
	Close() error
}

type chainClient struct {
	endpoint string
	opts     *common.ClientOptions
	logger   log.Logger
	rpc      rpcAPI
}

func NewChainClient(
	endpoint string,
	options ...common.ClientOption,
) (ChainClient, error) {
	if endpoint == "" {
		return nil, errors.New("rpc endpoint is empty")
	}
	return newChainClient(endpoint, rpc.New(endpoint), options...)
}

func newChainClient(endpoint string, api rpcAPI, options ...common.ClientOption) (*chainClient, error) {
	opts := common.DefaultClientOptions()
	for _, opt := range options {
		if err := opt(opts); err != nil {
			err = errors.Wrap(err, "error in client option")
			return nil, err
		}
	}

	return &chainClient{
		endpoint: endpoint,
		opts:     opts,
		logger: log.WithFields(log.Fields{
			"module": "crash-admin",
			"svc":    "chainClient",
		}),
		rpc: api,
	}, nil
}

func (c *chainClient) Endpoint() string {
	return c.endpoint
}

func (c *chainClient) Commitment() rpc.CommitmentType {
	return c.opts.Commitment
}

func (c *chainClient) GetLatestBlockhash(ctx context.Context) (*rpc.LatestBlockhashResult, error) {
	res, err := c.rpc.GetLatestBlockhash(ctx, c.opts.Commitment)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest blockhash")
	}
	if res == nil || res.Value == nil {
		return nil, ErrEmptyBlockhash
	}
	return res.Value, nil
}

func (c *chainClient) SendAndConfirmTransaction(
	ctx context.Context,
	tx *solana.Transaction,
	lastValidBlockHeight uint64,
) (string, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: c.opts.Commitment,
	})
	if err != nil {
		return "", wrapSendError(err)
	}

	c.logger.WithField("signature", sig.String()).Debugln("transaction submitted, awaiting confirmation")
	if err := c.awaitConfirmation(ctx, sig, lastValidBlockHeight); err != nil {
		return "", err
	}

	c.logger.WithFields(log.Fields{
		"signature":  sig.String(),
		"commitment": c.opts.Commitment,
	}).Infoln("transaction confirmed")
	return sig.String(), nil
}

func (c *chainClient) awaitConfirmation(ctx context.Context, sig solana.Signature, lastValidBlockHeight uint64) error {
	ticker := time.NewTicker(c.opts.StatusPoll)
	defer ticker.Stop()

	for {
		res, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
		if err != nil && !errors.Is(err, rpc.ErrNotFound) {
			return errors.Wrapf(err, "failed to get status of transaction %s", sig)
		}

		if res != nil && len(res.Value) > 0 && res.Value[0] != nil {
			status := res.Value[0]
			if status.Err != nil {
				return &TxError{
					Err:  errors.Errorf("transaction %s failed: %v", sig, status.Err),
					Logs: c.fetchLogs(ctx, sig),
				}
			}
			if commitmentReached(status, c.opts.Commitment) {
				return nil
			}
		}

		if lastValidBlockHeight > 0 {
			height, err := c.rpc.GetBlockHeight(ctx, c.opts.Commitment)
			if err != nil {
				c.logger.WithError(err).Debugln("failed to get block height")
			} else if height > lastValidBlockHeight {
				return errors.Wrapf(ErrBlockhashExpired, "transaction %s", sig)
			}
		}

		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "awaiting transaction %s", sig)
		case <-ticker.C:
		}
	}
}

func (c *chainClient) fetchLogs(ctx context.Context, sig solana.Signature) []string {
	maxVersion := uint64(0)
	res, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil || res == nil || res.Meta == nil {
		c.logger.WithError(err).Debugln("no logs available for failed transaction")
		return nil
	}
	return res.Meta.LogMessages
}

func (c *chainClient) Close() {
	if err := c.rpc.Close(); err != nil {
		c.logger.WithError(err).Errorln("failed to close rpc client")
	}
}

var commitmentRank = map[rpc.CommitmentType]int{
	rpc.CommitmentProcessed: 1,
	rpc.CommitmentConfirmed: 2,
	rpc.CommitmentFinalized: 3,
}

func commitmentReached(status *rpc.SignatureStatusesResult, want rpc.CommitmentType) bool {
	level := rpc.CommitmentType(status.ConfirmationStatus)
	if level == "" {
		// nodes that omit confirmationStatus report a nil confirmation
		// count once the slot is rooted
		level = rpc.CommitmentProcessed
		if status.Confirmations == nil {
			level = rpc.CommitmentFinalized
		}
	}

	got, ok := commitmentRank[level]
	if !ok {
		return false
	}
	return got >= commitmentRank[want]
}
