package svm

import (
	"context"
	"testing"

	"github.com/crashgame/sdk-go/chain/idl"
	"github.com/crashgame/sdk-go/chain/programs/crash"
	chaintypes "github.com/crashgame/sdk-go/chain/types"
	chainclient "github.com/crashgame/sdk-go/client/chain"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/text"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	sent    []*solana.Transaction
	lastVH  uint64
	txID    string
	sendErr error
}

func (f *fakeClient) Endpoint() string               { return "http://localhost:8899" }
func (f *fakeClient) Commitment() rpc.CommitmentType { return rpc.CommitmentConfirmed }
func (f *fakeClient) Close()                         {}

func (f *fakeClient) GetLatestBlockhash(ctx context.Context) (*rpc.LatestBlockhashResult, error) {
	return &rpc.LatestBlockhashResult{Blockhash: solana.Hash{7}, LastValidBlockHeight: 42}, nil
}

func (f *fakeClient) SendAndConfirmTransaction(ctx context.Context, tx *solana.Transaction, lastValidBlockHeight uint64) (string, error) {
	f.sent = append(f.sent, tx)
	f.lastVH = lastValidBlockHeight
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.txID, nil
}

func newCrashProgram(t *testing.T, client chainclient.ChainClient, payer solana.PublicKey) *Program {
	desc, err := crash.IDL()
	require.NoError(t, err)
	return NewProgram(desc, crash.ProgramID, NewProvider(client, NewPassthroughWallet(payer)))
}

// gameIDL declares the initialize instruction together with a custom
// error table.
const gameIDL = `{
  "version": "0.1.0",
  "name": "game",
  "instructions": [
    {
      "name": "initialize",
      "accounts": [
        { "name": "config", "isMut": true, "isSigner": false },
        { "name": "vault", "isMut": true, "isSigner": false },
        { "name": "payer", "isMut": true, "isSigner": true },
        { "name": "systemProgram", "isMut": false, "isSigner": false }
      ],
      "args": [{ "name": "admin", "type": "publicKey" }]
    }
  ],
  "errors": [
    { "code": 6000, "name": "RoundOpen", "msg": "A round is still running" },
    { "code": 6001, "name": "ConfigLocked", "msg": "Config can no longer be changed" }
  ]
}`

func newGameProgram(t *testing.T, client chainclient.ChainClient, payer solana.PublicKey) *Program {
	desc, err := idl.Parse([]byte(gameIDL))
	require.NoError(t, err)
	return NewProgram(desc, crash.ProgramID, NewProvider(client, NewPassthroughWallet(payer)))
}

func TestPassthroughWallet(t *testing.T) {
	pk := solana.NewWallet().PublicKey()
	w := NewPassthroughWallet(pk)
	require.Equal(t, pk, w.PublicKey())

	tx := &solana.Transaction{}
	out, err := w.SignTransaction(tx)
	require.NoError(t, err)
	require.Same(t, tx, out)
	require.Empty(t, out.Signatures)
}

func TestInitializeInstruction(t *testing.T) {
	admin := solana.NewWallet()
	program := newCrashProgram(t, &fakeClient{}, admin.PublicKey())

	accounts, err := crash.NewInitializeAccounts(crash.ProgramID, admin.PublicKey())
	require.NoError(t, err)

	ix, err := program.Method(crash.InstructionInit, admin.PublicKey()).
		Accounts(accounts.Map()).
		Instruction()
	require.NoError(t, err)
	require.Equal(t, crash.ProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	disc := idl.Discriminator("initialize")
	require.Len(t, data, 8+32)
	require.Equal(t, disc[:], data[:8])
	pk := admin.PublicKey()
	require.Equal(t, pk[:], data[8:])

	metas := ix.Accounts()
	require.Len(t, metas, 4)
	require.Equal(t, solana.NewAccountMeta(accounts.Config, true, false), metas[0])
	require.Equal(t, solana.NewAccountMeta(accounts.Vault, true, false), metas[1])
	require.Equal(t, solana.NewAccountMeta(admin.PublicKey(), true, true), metas[2])
	require.Equal(t, solana.NewAccountMeta(solana.SystemProgramID, false, false), metas[3])
	require.Equal(t, metas[2], ix.Account("payer"))
	require.Nil(t, ix.Account("unknown"))

	text.DisableColors = true
	tree := ix.String()
	require.Contains(t, tree, "initialize")
	require.Contains(t, tree, accounts.Config.String())
	require.Contains(t, tree, admin.PublicKey().String())
	require.Contains(t, tree, "Data: "+chaintypes.Base58Bytes(data).String())
}

func TestInstructionMissingAccount(t *testing.T) {
	admin := solana.NewWallet()
	program := newCrashProgram(t, &fakeClient{}, admin.PublicKey())

	_, err := program.Method(crash.InstructionInit, admin.PublicKey()).
		Accounts(map[string]solana.PublicKey{"config": {}}).
		Instruction()
	require.ErrorIs(t, err, ErrMissingAccount)

	_, err = program.Method("cashOut").Instruction()
	require.ErrorIs(t, err, idl.ErrInstructionNotFound)
}

func TestRpc(t *testing.T) {
	admin := solana.NewWallet()
	client := &fakeClient{txID: "abc123"}
	program := newCrashProgram(t, client, admin.PublicKey())

	accounts, err := crash.NewInitializeAccounts(crash.ProgramID, admin.PublicKey())
	require.NoError(t, err)

	txID, err := program.Method(crash.InstructionInit, admin.PublicKey()).
		Accounts(accounts.Map()).
		Signers(admin.PrivateKey).
		Rpc(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc123", txID)
	require.Equal(t, uint64(42), client.lastVH)

	require.Len(t, client.sent, 1)
	tx := client.sent[0]
	require.Equal(t, admin.PublicKey(), tx.Message.AccountKeys[0])
	require.Equal(t, solana.Hash{7}, tx.Message.RecentBlockhash)
	require.Len(t, tx.Signatures, 1)
	require.NoError(t, tx.VerifySignatures())
}

func TestRpcRequiresSigner(t *testing.T) {
	admin := solana.NewWallet()
	client := &fakeClient{}
	program := newCrashProgram(t, client, admin.PublicKey())
	accounts, err := crash.NewInitializeAccounts(crash.ProgramID, admin.PublicKey())
	require.NoError(t, err)

	_, err = program.Method(crash.InstructionInit, admin.PublicKey()).
		Accounts(accounts.Map()).
		Rpc(context.Background())
	require.ErrorIs(t, err, ErrNoSigners)

	other := solana.NewWallet()
	_, err = program.Method(crash.InstructionInit, admin.PublicKey()).
		Accounts(accounts.Map()).
		Signers(other.PrivateKey).
		Rpc(context.Background())
	require.ErrorContains(t, err, "failed to sign transaction")
	require.Empty(t, client.sent)
}

func TestRpcTranslatesProgramError(t *testing.T) {
	admin := solana.NewWallet()
	logs := []string{
		"Program 5ffMSBwMFAi7Du5eY2ChdtCxqPzRNznz8ahYQeKMctEg invoke [1]",
		"Program 5ffMSBwMFAi7Du5eY2ChdtCxqPzRNznz8ahYQeKMctEg failed: custom program error: 0x1771",
	}
	client := &fakeClient{sendErr: &chainclient.TxError{
		Err:  errors.New("Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1771"),
		Logs: logs,
	}}
	program := newGameProgram(t, client, admin.PublicKey())
	accounts, err := crash.NewInitializeAccounts(crash.ProgramID, admin.PublicKey())
	require.NoError(t, err)

	_, err = program.Method(crash.InstructionInit, admin.PublicKey()).
		Accounts(accounts.Map()).
		Signers(admin.PrivateKey).
		Rpc(context.Background())
	require.ErrorContains(t, err, "ConfigLocked (6001): Config can no longer be changed")
	require.Equal(t, logs, chainclient.LogsFromError(err))
}

func TestRpcAccountInUseUntranslated(t *testing.T) {
	admin := solana.NewWallet()
	logs := []string{
		"Program 5ffMSBwMFAi7Du5eY2ChdtCxqPzRNznz8ahYQeKMctEg invoke [1]",
		"Program log: Instruction: Initialize",
		"Program 11111111111111111111111111111111 invoke [2]",
		"Allocate: account Address { address: 9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin, base: None } already in use",
		"Program 11111111111111111111111111111111 failed: custom program error: 0x0",
		"Program 5ffMSBwMFAi7Du5eY2ChdtCxqPzRNznz8ahYQeKMctEg failed: custom program error: 0x0",
	}
	sendErr := &chainclient.TxError{
		Err:  errors.New("Transaction simulation failed: Error processing Instruction 0: custom program error: 0x0"),
		Logs: logs,
	}
	program := newCrashProgram(t, &fakeClient{sendErr: sendErr}, admin.PublicKey())
	accounts, err := crash.NewInitializeAccounts(crash.ProgramID, admin.PublicKey())
	require.NoError(t, err)

	_, err = program.Method(crash.InstructionInit, admin.PublicKey()).
		Accounts(accounts.Map()).
		Signers(admin.PrivateKey).
		Rpc(context.Background())
	require.Equal(t, sendErr, err)
	require.Equal(t, logs, chainclient.LogsFromError(err))
}

func TestTranslateErrorPassthrough(t *testing.T) {
	program := newGameProgram(t, &fakeClient{}, solana.PublicKey{})
	require.Equal(t, "game", program.IDL().Name)

	plain := errors.New("connection refused")
	require.Equal(t, plain, program.translateError(plain))

	unknown := errors.New("custom program error: 0x0")
	require.Equal(t, unknown, program.translateError(unknown))

	undeclared := errors.New("custom program error: 0x1772")
	require.Equal(t, undeclared, program.translateError(undeclared))

	bundled := newCrashProgram(t, &fakeClient{}, solana.PublicKey{})
	known := errors.New("custom program error: 0x1770")
	require.Equal(t, known, bundled.translateError(known))
}
