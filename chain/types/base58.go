package types

import (
	"github.com/goccy/go-json"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Base58Bytes is a byte slice that travels as a base58 string, the way
// Solana tooling prints instruction data and signatures.
type Base58Bytes []byte

func (b Base58Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(base58.Encode(b))
}

func (b *Base58Bytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	decoded, err := base58.Decode(s)
	if err != nil {
		return errors.Wrapf(err, "invalid base58 string %q", s)
	}
	*b = decoded
	return nil
}

func (b Base58Bytes) String() string {
	return base58.Encode(b)
}

func (b Base58Bytes) Bytes() []byte {
	return []byte(b)
}
