package svm

import (
	"context"
	"regexp"
	"strconv"

	"github.com/crashgame/sdk-go/chain/idl"
	chainclient "github.com/crashgame/sdk-go/client/chain"
	log "github.com/InjectiveLabs/suplog"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var (
	ErrMissingAccount = errors.New("account not provided")
	ErrNoSigners      = errors.New("no signers provided")

	customErrorPattern = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)
)

// Program is a callable proxy for a deployed program, driven by its IDL.
type Program struct {
	idl       *idl.IDL
	programID solana.PublicKey
	provider  *Provider
	logger    log.Logger
}

func NewProgram(desc *idl.IDL, programID solana.PublicKey, provider *Provider) *Program {
	return &Program{
		idl:       desc,
		programID: programID,
		provider:  provider,
		logger: log.WithFields(log.Fields{
			"module":  "crash-admin",
			"svc":     "program",
			"program": desc.Name,
		}),
	}
}

func (p *Program) ProgramID() solana.PublicKey {
	return p.programID
}

func (p *Program) IDL() *idl.IDL {
	return p.idl
}

// Method starts a call of the named instruction with positional args.
func (p *Program) Method(name string, args ...interface{}) *MethodBuilder {
	return &MethodBuilder{
		program: p,
		name:    name,
		args:    args,
	}
}

type MethodBuilder struct {
	program  *Program
	name     string
	args     []interface{}
	accounts map[string]solana.PublicKey
	signers  []solana.PrivateKey
}

func (b *MethodBuilder) Accounts(accounts map[string]solana.PublicKey) *MethodBuilder {
	b.accounts = accounts
	return b
}

func (b *MethodBuilder) Signers(signers ...solana.PrivateKey) *MethodBuilder {
	b.signers = append(b.signers, signers...)
	return b
}

// Instruction resolves the accounts in IDL order and encodes the args.
func (b *MethodBuilder) Instruction() (*Instruction, error) {
	ix, err := b.program.idl.Instruction(b.name)
	if err != nil {
		return nil, err
	}

	data, err := idl.EncodeInstructionData(ix, b.args...)
	if err != nil {
		return nil, err
	}

	metas := make(solana.AccountMetaSlice, 0, len(ix.Accounts))
	names := make([]string, 0, len(ix.Accounts))
	for _, item := range ix.Accounts {
		if len(item.Accounts) > 0 {
			return nil, errors.Errorf("nested account group %s is not supported", item.Name)
		}

		pubkey, ok := b.accounts[item.Name]
		if !ok {
			if item.IsOptional {
				// anchor marks an absent optional account with the program id
				pubkey = b.program.programID
			} else {
				return nil, errors.Wrapf(ErrMissingAccount, "%s.%s", ix.Name, item.Name)
			}
		}

		metas = append(metas, solana.NewAccountMeta(pubkey, item.IsMut, item.IsSigner))
		names = append(names, item.Name)
	}

	return &Instruction{
		programID:        b.program.programID,
		programName:      b.program.idl.Name,
		name:             ix.Name,
		args:             ix.Args,
		argValues:        b.args,
		accountNames:     names,
		AccountMetaSlice: metas,
		data:             data,
	}, nil
}

// Transaction builds and signs a transaction carrying the instruction, paid
// for by the provider's wallet.
func (b *MethodBuilder) Transaction(blockhash solana.Hash) (*solana.Transaction, error) {
	if len(b.signers) == 0 {
		return nil, ErrNoSigners
	}

	ix, err := b.Instruction()
	if err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		blockhash,
		solana.TransactionPayer(b.program.provider.Wallet.PublicKey()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build transaction")
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range b.signers {
			if b.signers[i].PublicKey().Equals(key) {
				return &b.signers[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return tx, nil
}

// Rpc submits the call as a single transaction and waits for the
// provider client's commitment level. It returns the transaction id.
func (b *MethodBuilder) Rpc(ctx context.Context) (string, error) {
	client := b.program.provider.Client

	blockhash, err := client.GetLatestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	tx, err := b.Transaction(blockhash.Blockhash)
	if err != nil {
		return "", err
	}

	b.program.logger.WithFields(log.Fields{
		"method":    b.name,
		"blockhash": blockhash.Blockhash.String(),
		"endpoint":  client.Endpoint(),
	}).Debugln("sending transaction")

	txID, err := client.SendAndConfirmTransaction(ctx, tx, blockhash.LastValidBlockHeight)
	if err != nil {
		return "", b.program.translateError(err)
	}
	return txID, nil
}

// translateError prefixes err with the IDL name and message of a custom
// program error code found in err or its logs.
func (p *Program) translateError(err error) error {
	candidates := append([]string{err.Error()}, chainclient.LogsFromError(err)...)
	for _, line := range candidates {
		m := customErrorPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		code, parseErr := strconv.ParseUint(m[1], 16, 32)
		if parseErr != nil {
			continue
		}

		if e, ok := p.idl.ErrorByCode(uint32(code)); ok {
			return errors.Wrapf(err, "%s (%d): %s", e.Name, e.Code, e.Msg)
		}
	}
	return err
}
