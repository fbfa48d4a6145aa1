package svm

import (
	"bytes"

	"github.com/crashgame/sdk-go/chain/idl"
	chaintypes "github.com/crashgame/sdk-go/chain/types"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/text"
	"github.com/gagliardetto/solana-go/text/format"
	"github.com/gagliardetto/treeout"
)

// Instruction is an IDL-encoded program instruction. It satisfies
// solana.Instruction and renders as a tree for inspection.
type Instruction struct {
	programID    solana.PublicKey
	programName  string
	name         string
	args         []idl.Field
	argValues    []interface{}
	accountNames []string
	data         []byte

	solana.AccountMetaSlice
}

func (inst *Instruction) ProgramID() solana.PublicKey {
	return inst.programID
}

func (inst *Instruction) Accounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

func (inst *Instruction) Data() ([]byte, error) {
	return inst.data, nil
}

// Account returns the meta bound to the IDL account name.
func (inst *Instruction) Account(name string) *solana.AccountMeta {
	for i, n := range inst.accountNames {
		if n == name {
			return inst.AccountMetaSlice[i]
		}
	}
	return nil
}

func (inst *Instruction) EncodeToTree(parent treeout.Branches) {
	parent.Child(format.Program(inst.programName, inst.programID)).
		ParentFunc(func(programBranch treeout.Branches) {
			programBranch.Child(format.Instruction(inst.name)).
				ParentFunc(func(instructionBranch treeout.Branches) {
					instructionBranch.Child("Params").ParentFunc(func(paramsBranch treeout.Branches) {
						for i, field := range inst.args {
							if pk, ok := inst.argValues[i].(solana.PublicKey); ok {
								paramsBranch.Child(format.Account(field.Name, pk))
								continue
							}
							paramsBranch.Child(format.Param(field.Name, inst.argValues[i]))
						}
					})

					instructionBranch.Child("Accounts").ParentFunc(func(accountsBranch treeout.Branches) {
						for i, name := range inst.accountNames {
							accountsBranch.Child(format.Meta(name, inst.AccountMetaSlice[i]))
						}
					})

					instructionBranch.Child("Data: " + chaintypes.Base58Bytes(inst.data).String())
				})
		})
}

func (inst *Instruction) String() string {
	buf := new(bytes.Buffer)
	enc := text.NewTreeEncoder(buf, "")
	inst.EncodeToTree(enc.Tree)
	enc.WriteString(enc.Tree.String())
	return buf.String()
}
