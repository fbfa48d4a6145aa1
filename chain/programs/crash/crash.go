package crash

import (
	"sync"

	_ "embed"

	"github.com/crashgame/sdk-go/chain/idl"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

const (
	ProgramName       = "crash123a"
	InstructionInit   = "initialize"
	AccountConfig     = "config"
	AccountVault      = "vault"
	AccountPayer      = "payer"
	AccountSysProgram = "systemProgram"
)

var (
	ProgramID = solana.MustPublicKeyFromBase58("5ffMSBwMFAi7Du5eY2ChdtCxqPzRNznz8ahYQeKMctEg")

	SeedConfig = []byte("config")
	SeedVault  = []byte("vault")

	//go:embed idl/crash123a.json
	idlJSON []byte

	idlOnce   sync.Once
	idlParsed *idl.IDL
	idlErr    error
)

// IDL returns the bundled interface description, parsed on first use.
func IDL() (*idl.IDL, error) {
	idlOnce.Do(func() {
		idlParsed, idlErr = idl.Parse(idlJSON)
		if idlErr != nil {
			idlErr = errors.Wrapf(idlErr, "bundled %s IDL", ProgramName)
		}
	})
	return idlParsed, idlErr
}

func DeriveConfigPDA(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedConfig}, programID)
}

func DeriveVaultPDA(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{SeedVault}, programID)
}

type InitializeAccounts struct {
	Config        solana.PublicKey
	Vault         solana.PublicKey
	Payer         solana.PublicKey
	SystemProgram solana.PublicKey
}

// NewInitializeAccounts derives the config and vault PDAs of programID and
// pairs them with the paying admin.
func NewInitializeAccounts(programID, payer solana.PublicKey) (InitializeAccounts, error) {
	config, _, err := DeriveConfigPDA(programID)
	if err != nil {
		return InitializeAccounts{}, errors.Wrap(err, "failed to derive config PDA")
	}

	vault, _, err := DeriveVaultPDA(programID)
	if err != nil {
		return InitializeAccounts{}, errors.Wrap(err, "failed to derive vault PDA")
	}

	return InitializeAccounts{
		Config:        config,
		Vault:         vault,
		Payer:         payer,
		SystemProgram: solana.SystemProgramID,
	}, nil
}

func (a InitializeAccounts) Map() map[string]solana.PublicKey {
	return map[string]solana.PublicKey{
		AccountConfig:     a.Config,
		AccountVault:      a.Vault,
		AccountPayer:      a.Payer,
		AccountSysProgram: a.SystemProgram,
	}
}
