package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/paylink/internal/model"
)

func TestMain(m *testing.M) {
	KDF = KDFParams{N: 1 << 10, R: 8, P: 1, KeyLen: 32}
	os.Exit(m.Run())
}

func testWalletData() *model.WalletData {
	key := make([]byte, 64)
	for i := range key {
		key[i] = byte(i)
	}
	return &model.WalletData{PrivateKey: key, CreatedAt: "2026-01-02T03:04:05Z"}
}

func TestEncryptDecryptWallet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	data := testWalletData()

	require.NoError(t, EncryptWallet(path, "solana", "Addr111", "qr", data, []byte("pw")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, utf8BOM, raw[:3], "file should start with UTF-8 BOM")

	cwt, got, err := DecryptWallet(path, []byte("pw"))
	require.NoError(t, err)
	assert.Equal(t, "solana", cwt.Network)
	assert.Equal(t, "Addr111", cwt.Address)
	assert.Equal(t, data.PrivateKey, got.PrivateKey)
	assert.Equal(t, data.CreatedAt, got.CreatedAt)

	addr, err := ReadWalletAddress(path)
	require.NoError(t, err)
	assert.Equal(t, "Addr111", addr)
}

func TestDecryptWallet_WrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	require.NoError(t, EncryptWallet(path, "solana", "Addr111", "", testWalletData(), []byte("pw")))

	_, _, err := DecryptWallet(path, []byte("nope"))
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestEncryptWallet_Rejections(t *testing.T) {
	dir := t.TempDir()

	err := EncryptWallet(filepath.Join(dir, "wallet.json"), "solana", "A", "", testWalletData(), []byte("pw"))
	assert.Error(t, err)

	path := filepath.Join(dir, "wallet.cwt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	err = EncryptWallet(path, "solana", "A", "", testWalletData(), []byte("pw"))
	assert.ErrorIs(t, err, ErrFileNotEmpty)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestReadWalletAddress_Missing(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadWalletAddress(filepath.Join(dir, "none.cwt"))
	assert.ErrorIs(t, err, ErrWalletNotFound)

	empty := filepath.Join(dir, "empty.cwt")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	_, err = ReadWalletAddress(empty)
	assert.ErrorIs(t, err, ErrWalletEmpty)
}

func TestRekey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	data := testWalletData()
	require.NoError(t, EncryptWallet(path, "solana", "Addr111", "qr", data, []byte("old")))

	require.NoError(t, Rekey(path, []byte("old"), []byte("new")))

	_, _, err := DecryptWallet(path, []byte("old"))
	assert.ErrorIs(t, err, ErrInvalidPassword)

	cwt, got, err := DecryptWallet(path, []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, "Addr111", cwt.Address)
	assert.Equal(t, "qr", cwt.QR)
	assert.Equal(t, testWalletData().PrivateKey, got.PrivateKey)

	assert.Error(t, Rekey(path, []byte("new"), nil))
	assert.ErrorIs(t, Rekey(path, []byte("wrong"), []byte("x")), ErrInvalidPassword)
}
