package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/crashgame/sdk-go/chain/idl"
	"github.com/crashgame/sdk-go/chain/programs/crash"
	chaintypes "github.com/crashgame/sdk-go/chain/types"
	"github.com/crashgame/sdk-go/client/common"
	"github.com/crashgame/sdk-go/client/svm"
	log "github.com/InjectiveLabs/suplog"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

var explorerNetwork = common.LoadNetwork(defaultNetwork)

func runInitialize(ctx context.Context, cfg Config, verbose bool, out io.Writer) error {
	logger := log.WithFields(log.Fields{
		"module": "crash-admin",
		"svc":    "initialize",
	})

	fmt.Fprintln(out, "Initializing Crash Game...")

	// load wallet
	payer, err := chaintypes.LoadKeypairFile(cfg.Keypair)
	if err != nil {
		return err
	}
	admin := payer.PublicKey()

	// connection + provider
	client, err := newChainClient(cfg.URL, common.OptionCommitment(rpc.CommitmentConfirmed))
	if err != nil {
		return errors.Wrapf(err, "failed to connect to %s", cfg.URL)
	}
	defer client.Close()

	provider := svm.NewProvider(client, svm.NewPassthroughWallet(admin))

	desc, err := loadIDL(cfg.IDL)
	if err != nil {
		return err
	}
	program := svm.NewProgram(desc, crash.ProgramID, provider)
	if err := checkIDLAddress(program); err != nil {
		return err
	}

	// PDAs
	accounts, err := crash.NewInitializeAccounts(program.ProgramID(), admin)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Admin:", admin.String())
	fmt.Fprintln(out, "Config PDA:", accounts.Config.String())
	fmt.Fprintln(out, "Vault PDA:", accounts.Vault.String())

	method := program.Method(crash.InstructionInit, admin).
		Accounts(accounts.Map()).
		Signers(payer)

	if verbose {
		ix, err := method.Instruction()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ix.String())
	}

	logger.WithField("endpoint", client.Endpoint()).Debugln("submitting initialize")
	txID, err := method.Rpc(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "SUCCESS!")
	fmt.Fprintln(out, "Transaction:", txID)
	fmt.Fprintln(out, explorerNetwork.ExplorerTxURL(txID))
	fmt.Fprintln(out, "You are now the ADMIN. Game is ready!")
	return nil
}

func loadIDL(path string) (*idl.IDL, error) {
	if path == "" {
		return crash.IDL()
	}

	resolved, err := common.ExpandHome(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve home directory")
	}
	return idl.LoadFile(resolved)
}

// checkIDLAddress rejects an IDL whose metadata names a different program.
func checkIDLAddress(program *svm.Program) error {
	meta := program.IDL().Metadata
	if meta == nil || meta.Address == "" {
		return nil
	}
	if meta.Address != program.ProgramID().String() {
		return errors.Errorf("IDL %s is published for program %s, not %s",
			program.IDL().Name, meta.Address, program.ProgramID())
	}
	return nil
}
