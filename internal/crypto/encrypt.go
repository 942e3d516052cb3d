package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlexZinkM/paylink/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLen  = 32
	nonceLen = 12

	// WalletFileExt is the extension every wallet file must carry.
	WalletFileExt = ".cwt"
)

// KDFParams are the scrypt parameters used for wallet files.
type KDFParams struct {
	N      int
	R      int
	P      int
	KeyLen int
}

// DefaultKDF favours security over speed:
// N=2^18 needs ~256MB RAM and 0.5-2s, still workable on phones.
var DefaultKDF = KDFParams{N: 1 << 18, R: 8, P: 1, KeyLen: 32}

// KDF is the active parameter set. Tests lower it to keep scrypt fast.
var KDF = DefaultKDF

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrFileNotEmpty indicates an attempt to create a wallet over existing data.
var ErrFileNotEmpty = fmt.Errorf("file is not empty: %w", os.ErrExist)

// EncryptWallet encrypts wallet data and writes it to a new .cwt file.
// password must be []byte for security (caller should zero it after use)
func EncryptWallet(filePath string, network, address, qrCode string, walletData *model.WalletData, password []byte) error {
	if !strings.HasSuffix(filePath, WalletFileExt) {
		return errors.New("file must have .cwt extension")
	}

	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return ErrFileNotEmpty
	}

	cwtFile, err := sealWallet(network, address, qrCode, walletData, password)
	if err != nil {
		return err
	}

	return writeWalletFile(filePath, cwtFile)
}

// Rekey re-encrypts the wallet file under newPassword with a fresh salt and nonce.
// The file is replaced atomically.
func Rekey(filePath string, oldPassword, newPassword []byte) error {
	if len(newPassword) == 0 {
		return errors.New("new password cannot be empty")
	}

	cwtFile, walletData, err := DecryptWallet(filePath, oldPassword)
	if err != nil {
		return err
	}
	defer clear(walletData.PrivateKey)

	sealed, err := sealWallet(cwtFile.Network, cwtFile.Address, cwtFile.QR, walletData, newPassword)
	if err != nil {
		return err
	}

	tmp := filePath + ".tmp"
	if err := writeWalletFile(tmp, sealed); err != nil {
		return err
	}
	if err := os.Rename(tmp, filePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace wallet file: %w", err)
	}
	return nil
}

func sealWallet(network, address, qrCode string, walletData *model.WalletData, password []byte) (*model.CWTFile, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := json.Marshal(walletData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet data: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	return &model.CWTFile{
		Network:    network,
		Address:    address,
		QR:         qrCode,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

func newGCM(password, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, KDF.N, KDF.R, KDF.P, KDF.KeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

func writeWalletFile(filePath string, cwtFile *model.CWTFile) error {
	fileData, err := json.MarshalIndent(cwtFile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cwt file: %w", err)
	}

	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create wallet directory: %w", err)
		}
	}

	// UTF-8 BOM for proper display in Windows
	if err := os.WriteFile(filePath, append(append([]byte{}, utf8BOM...), fileData...), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
