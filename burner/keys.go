package burner

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/tyler-smith/go-bip39"

	"github.com/AlexZinkM/paylink/internal/model"
)

const (
	entropyBits    = 128 // 12 words
	hardenedOffset = 0x80000000
)

// derivationPath is m/44'/501'/0'/0', the account most Solana wallets import a phrase into.
var derivationPath = []uint32{44, 501, 0, 0}

// ErrInvalidMnemonic is returned for a phrase that fails BIP-39 validation.
var ErrInvalidMnemonic = fmt.Errorf("invalid recovery phrase: %w", model.ErrDecode)

// NewMnemonic returns a fresh 12-word recovery phrase.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to build mnemonic: %w", err)
	}
	return mnemonic, nil
}

// KeypairFromMnemonic derives the burner's private key. The caller must clear it.
func KeypairFromMnemonic(mnemonic string) (solana.PrivateKey, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed := bip39.NewSeed(mnemonic, "")
	defer clear(seed)

	return deriveKey(seed, derivationPath), nil
}

// deriveKey implements SLIP-0010 for ed25519, where every index is hardened.
func deriveKey(seed []byte, path []uint32) solana.PrivateKey {
	key, chain := slip10Step([]byte("ed25519 seed"), seed)
	for _, index := range path {
		data := make([]byte, 0, 1+len(key)+4)
		data = append(data, 0x00)
		data = append(data, key...)
		data = binary.BigEndian.AppendUint32(data, index|hardenedOffset)

		nextKey, nextChain := slip10Step(chain, data)
		clear(data)
		clear(key)
		clear(chain)
		key, chain = nextKey, nextChain
	}
	defer clear(key)
	defer clear(chain)

	return solana.PrivateKey(ed25519.NewKeyFromSeed(key))
}

func slip10Step(hmacKey, data []byte) (key, chain []byte) {
	mac := hmac.New(sha512.New, hmacKey)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// AddressFromMnemonic returns the public address a phrase controls.
func AddressFromMnemonic(mnemonic string) (string, error) {
	key, err := KeypairFromMnemonic(mnemonic)
	if err != nil {
		return "", err
	}
	defer clear(key)
	return key.PublicKey().String(), nil
}

func parseAddress(address string) (solana.PublicKey, error) {
	pub, err := solana.PublicKeyFromBase58(strings.TrimSpace(address))
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid Solana address: %w", model.ErrValidation)
	}
	return pub, nil
}

// IsAddress reports whether s parses as a base58 public key.
func IsAddress(s string) bool {
	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}
