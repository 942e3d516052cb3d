package signer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/paylink/internal/crypto"
	"github.com/AlexZinkM/paylink/internal/model"
)

func TestMain(m *testing.M) {
	crypto.KDF = crypto.KDFParams{N: 1 << 10, R: 8, P: 1, KeyLen: 32}
	os.Exit(m.Run())
}

func TestLocalSigner_SignVerify(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	s, err := NewLocalSigner(key)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), s.PublicKey())

	msg := []byte("hello")
	sig, err := s.Sign(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, Verify(s.PublicKey(), msg, sig))
	assert.False(t, Verify(s.PublicKey(), []byte("other"), sig))

	s.Wipe()
	_, err = s.Sign(context.Background(), msg)
	assert.Error(t, err)

	_, err = NewLocalSigner(solana.PrivateKey{1, 2, 3})
	assert.Error(t, err)
}

func TestPresigned(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	msg := []byte("paylink:register:alice")
	sig, err := key.Sign(msg)
	require.NoError(t, err)

	s, err := Presigned(key.PublicKey().String(), sig.String())
	require.NoError(t, err)

	got, err := s.Sign(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, sig, got)
	assert.True(t, Verify(s.PublicKey(), msg, got))

	_, err = Presigned("not-an-address", sig.String())
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = Presigned(key.PublicKey().String(), "%%%")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestSignTransaction(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	to := solana.NewWallet().PublicKey()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1000, key.PublicKey(), to).Build()},
		solana.Hash{1},
		solana.TransactionPayer(key.PublicKey()),
	)
	require.NoError(t, err)

	s, err := NewLocalSigner(key)
	require.NoError(t, err)
	require.NoError(t, SignTransaction(context.Background(), tx, s))
	require.Len(t, tx.Signatures, 1)
	assert.NoError(t, tx.VerifySignatures())

	other, err := Presigned(key.PublicKey().String(), solana.Signature{}.String())
	require.NoError(t, err)
	assert.Error(t, SignTransaction(context.Background(), tx, other))
}

func TestWalletFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funding.cwt")

	address, err := CreateWalletFile(path, []byte("secret"))
	require.NoError(t, err)

	_, err = CreateWalletFile(path, []byte("secret"))
	assert.True(t, IsFileExistsError(err))

	s, err := LoadWalletFile(path, []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, address, s.PublicKey().String())

	_, err = LoadWalletFile(path, []byte("wrong"))
	assert.ErrorIs(t, err, crypto.ErrInvalidPassword)

	src := &FileSource{Path: path, Password: func() ([]byte, error) { return []byte("secret"), nil }}
	opened, err := src.Open()
	require.NoError(t, err)
	defer opened.Wipe()
	assert.Equal(t, address, opened.PublicKey().String())

	got, err := src.Address()
	require.NoError(t, err)
	assert.Equal(t, address, got)
}
