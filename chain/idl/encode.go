package idl

import (
	"bytes"
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// EncodeInstructionData returns the discriminator of ix followed by the
// borsh encoding of args, positionally matched against ix.Args.
func EncodeInstructionData(ix *Instruction, args ...interface{}) ([]byte, error) {
	if len(args) != len(ix.Args) {
		return nil, errors.Errorf("%s expects %d args, got %d", ix.Name, len(ix.Args), len(args))
	}

	buf := new(bytes.Buffer)
	disc := Discriminator(ix.Name)
	buf.Write(disc[:])

	enc := bin.NewBorshEncoder(buf)
	for i, field := range ix.Args {
		if err := encodeArg(enc, field.Type, args[i]); err != nil {
			return nil, errors.Wrapf(err, "arg %s of %s", field.Name, ix.Name)
		}
	}

	return buf.Bytes(), nil
}

func encodeArg(enc *bin.Encoder, typ Type, v interface{}) error {
	if typ.Primitive == "" {
		return errors.Errorf("unsupported arg type %s", typ)
	}

	switch typ.Primitive {
	case "publicKey", "pubkey":
		switch pk := v.(type) {
		case solana.PublicKey:
			return enc.WriteBytes(pk[:], false)
		case *solana.PublicKey:
			return enc.WriteBytes(pk[:], false)
		}
	case "bool":
		if b, ok := v.(bool); ok {
			return enc.WriteBool(b)
		}
	case "u8":
		if n, ok := v.(uint8); ok {
			return enc.WriteUint8(n)
		}
	case "i8":
		if n, ok := v.(int8); ok {
			return enc.WriteInt8(n)
		}
	case "u16":
		if n, ok := v.(uint16); ok {
			return enc.WriteUint16(n, binary.LittleEndian)
		}
	case "i16":
		if n, ok := v.(int16); ok {
			return enc.WriteInt16(n, binary.LittleEndian)
		}
	case "u32":
		if n, ok := v.(uint32); ok {
			return enc.WriteUint32(n, binary.LittleEndian)
		}
	case "i32":
		if n, ok := v.(int32); ok {
			return enc.WriteInt32(n, binary.LittleEndian)
		}
	case "u64":
		if n, ok := v.(uint64); ok {
			return enc.WriteUint64(n, binary.LittleEndian)
		}
	case "i64":
		if n, ok := v.(int64); ok {
			return enc.WriteInt64(n, binary.LittleEndian)
		}
	case "string":
		if s, ok := v.(string); ok {
			return enc.WriteBytes([]byte(s), true)
		}
	case "bytes":
		if b, ok := v.([]byte); ok {
			return enc.WriteBytes(b, true)
		}
	default:
		return errors.Errorf("unsupported arg type %s", typ)
	}

	return errors.Errorf("cannot encode %T as %s", v, typ)
}
