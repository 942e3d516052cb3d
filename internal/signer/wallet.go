package signer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/skip2/go-qrcode"

	"github.com/AlexZinkM/paylink/internal/crypto"
	"github.com/AlexZinkM/paylink/internal/model"
)

const networkSolana = "solana"

// FileExistsError is an error when file already exists and is not empty
type FileExistsError struct {
	Message string
}

func (e *FileExistsError) Error() string {
	return e.Message
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	var target *FileExistsError
	return errors.As(err, &target)
}

// CreateWalletFile generates the service's funding keypair and saves it to an encrypted .cwt file.
// password must be []byte for security (caller should zero it after use)
func CreateWalletFile(filePath string, password []byte) (string, error) {
	wallet := solana.NewWallet()
	defer clear(wallet.PrivateKey)

	address := wallet.PublicKey().String()

	qrCode, err := generateQRCode(address)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	walletData := &model.WalletData{
		PrivateKey: wallet.PrivateKey,
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	if err := crypto.EncryptWallet(filePath, networkSolana, address, qrCode, walletData, password); err != nil {
		if errors.Is(err, crypto.ErrFileNotEmpty) {
			return "", &FileExistsError{Message: "file is not empty"}
		}
		return "", fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	return address, nil
}

// LoadWalletFile decrypts the .cwt file and returns a signer for the key inside.
// The stored key must match the stored address.
func LoadWalletFile(filePath string, password []byte) (*LocalSigner, error) {
	cwtFile, walletData, err := crypto.DecryptWallet(filePath, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt wallet: %w", err)
	}
	defer clear(walletData.PrivateKey)

	// we store full 64-byte key
	if len(walletData.PrivateKey) != 64 {
		return nil, errors.New("invalid private key length")
	}

	fromPubkey, err := solana.PublicKeyFromBase58(cwtFile.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	key := solana.PrivateKey(walletData.PrivateKey)
	if !key.PublicKey().Equals(fromPubkey) {
		return nil, errors.New("private key does not match address")
	}

	return NewLocalSigner(key)
}

// FileSource opens the funding wallet on demand so the key is held only for one operation.
type FileSource struct {
	Path     string
	Password func() ([]byte, error) // returns a copy the source may wipe
}

// Open decrypts the wallet file. Callers must Wipe the returned signer.
func (f *FileSource) Open() (*LocalSigner, error) {
	password, err := f.Password()
	if err != nil {
		return nil, err
	}
	defer clear(password)
	return LoadWalletFile(f.Path, password)
}

// Address reads the funding address without decrypting the file.
func (f *FileSource) Address() (string, error) {
	return crypto.ReadWalletAddress(f.Path)
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
