package types

import (
	"bytes"
	"crypto/ed25519"
	"os"

	"github.com/crashgame/sdk-go/client/common"
	"github.com/gagliardetto/solana-go"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

var ErrKeypairMismatch = errors.New("public key does not match secret key seed")

// LoadKeypairFile reads a solana-keygen style file: a JSON array holding
// the 64 byte secret key (32 byte seed followed by the public key).
func LoadKeypairFile(path string) (solana.PrivateKey, error) {
	resolved, err := common.ExpandHome(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve home directory")
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read keypair file %s", resolved)
	}

	key, err := KeypairFromBytes(content)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid keypair file %s", resolved)
	}
	return key, nil
}

func KeypairFromBytes(content []byte) (solana.PrivateKey, error) {
	var values []uint8
	if err := json.Unmarshal(content, &values); err != nil {
		return nil, errors.Wrap(err, "decode secret key")
	}

	if _, err := solana.ValidatePrivateKey(values); err != nil {
		return nil, err
	}

	derived := ed25519.NewKeyFromSeed(values[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], values[ed25519.SeedSize:]) {
		return nil, ErrKeypairMismatch
	}

	return solana.PrivateKey(values), nil
}
