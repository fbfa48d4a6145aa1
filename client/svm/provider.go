package svm

import (
	chainclient "github.com/crashgame/sdk-go/client/chain"
	"github.com/gagliardetto/solana-go"
)

type Wallet interface {
	PublicKey() solana.PublicKey
	SignTransaction(tx *solana.Transaction) (*solana.Transaction, error)
}

// PassthroughWallet names the fee payer without holding its key.
// SignTransaction hands the transaction back untouched; signatures are
// supplied through MethodBuilder.Signers instead.
type PassthroughWallet struct {
	pubkey solana.PublicKey
}

func NewPassthroughWallet(pubkey solana.PublicKey) *PassthroughWallet {
	return &PassthroughWallet{pubkey: pubkey}
}

func (w *PassthroughWallet) PublicKey() solana.PublicKey {
	return w.pubkey
}

func (w *PassthroughWallet) SignTransaction(tx *solana.Transaction) (*solana.Transaction, error) {
	return tx, nil
}

// Provider bundles the cluster connection with the wallet paying for
// transactions.
type Provider struct {
	Client chainclient.ChainClient
	Wallet Wallet
}

func NewProvider(client chainclient.ChainClient, wallet Wallet) *Provider {
	return &Provider{
		Client: client,
		Wallet: wallet,
	}
}
