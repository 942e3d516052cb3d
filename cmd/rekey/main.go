// Rekey changes the password of a .cwt wallet file in place.
// Usage: go run ./cmd/rekey [-wallet path/to/wallet.cwt]
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/paylink/internal/config"
	"github.com/AlexZinkM/paylink/internal/crypto"
)

func main() {
	path := flag.String("wallet", os.Getenv("WALLET_FILE_PATH"), "path to the .cwt wallet file")
	flag.Parse()

	if err := run(*path); err != nil {
		fmt.Fprintln(os.Stderr, "rekey failed:", err)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "wallet password changed:", *path)
}

func run(path string) error {
	if path == "" {
		return errors.New("wallet path is required: pass -wallet or set WALLET_FILE_PATH")
	}
	if _, err := crypto.ReadWalletAddress(path); err != nil {
		return err
	}

	oldPassword, err := config.ReadPassword("Current password: ")
	if err != nil {
		return err
	}
	defer clear(oldPassword)

	newPassword, err := config.ReadPassword("New password: ")
	if err != nil {
		return err
	}
	defer clear(newPassword)

	confirm, err := config.ReadPassword("Repeat new password: ")
	if err != nil {
		return err
	}
	defer clear(confirm)

	if !bytes.Equal(newPassword, confirm) {
		return errors.New("new passwords do not match")
	}

	return crypto.Rekey(path, oldPassword, newPassword)
}
