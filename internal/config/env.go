package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"

	"github.com/AlexZinkM/paylink/internal/common"
	"github.com/AlexZinkM/paylink/internal/retry"
)

const (
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
)

// Config contains all configuration parameters for the application.
// Note: Password is prompted at runtime and stored in memory - use GetWalletPasswordBytes()
type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	WalletFilePath string `envconfig:"WALLET_FILE_PATH" required:"true"`
	SolanaRPCURL   string `envconfig:"SOLANA_RPC_URL" default:"https://api.devnet.solana.com"`
	LinkBaseURL    string `envconfig:"LINK_BASE_URL" default:"http://localhost:8080/claim"`

	FeeLamports  uint64 `envconfig:"FEE_LAMPORTS" default:"5000"`
	DustLamports uint64 `envconfig:"DUST_LAMPORTS" default:"0"`
	MinAmount    string `envconfig:"MIN_AMOUNT" default:"0.001"` // SOL
	MaxAmount    string `envconfig:"MAX_AMOUNT" default:"10"`    // SOL

	RetryAttempts    uint64        `envconfig:"RETRY_ATTEMPTS" default:"3"`
	RetryInitialWait time.Duration `envconfig:"RETRY_INITIAL_WAIT" default:"500ms"`
	RetryMaxWait     time.Duration `envconfig:"RETRY_MAX_WAIT" default:"5s"`

	SpendInterval time.Duration `envconfig:"SPEND_INTERVAL" default:"10s"`
	SpendBurst    int           `envconfig:"SPEND_BURST" default:"3"`

	DirectoryBackend  string `envconfig:"DIRECTORY_BACKEND" default:"bolt"`
	DirectoryBoltPath string `envconfig:"DIRECTORY_BOLT_PATH" default:"data/directory.db"`
	DatabaseDSN       string `envconfig:"DATABASE_DSN"`

	CoinGeckoURL  string `envconfig:"COINGECKO_URL" default:"https://api.coingecko.com/api/v3"`
	PriceCurrency string `envconfig:"PRICE_CURRENCY" default:"usd"`
}

// cfg is the global configuration instance
var cfg *Config

// Load reads and validates configuration from environment variables.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Init loads configuration from environment variables into the global instance.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// Validate checks values envconfig cannot check by itself.
func (c *Config) Validate() error {
	if c.WalletFilePath == "" {
		return errors.New("WALLET_FILE_PATH is required")
	}

	if _, _, err := c.AmountBounds(); err != nil {
		return err
	}

	u, err := url.Parse(c.LinkBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid LINK_BASE_URL %q", c.LinkBaseURL)
	}
	if u.Fragment != "" {
		return errors.New("LINK_BASE_URL must not contain a fragment")
	}

	switch c.DirectoryBackend {
	case BackendBolt:
		if c.DirectoryBoltPath == "" {
			return errors.New("DIRECTORY_BOLT_PATH is required for the bolt backend")
		}
	case BackendPostgres:
		if c.DatabaseDSN == "" {
			return errors.New("DATABASE_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown DIRECTORY_BACKEND %q", c.DirectoryBackend)
	}

	if c.SpendInterval < 0 || c.SpendBurst < 1 {
		return errors.New("SPEND_INTERVAL must be non-negative and SPEND_BURST positive")
	}
	return nil
}

// MinAmountLamports returns MIN_AMOUNT in lamports
func (c *Config) MinAmountLamports() (uint64, error) {
	return common.SOLToLamports(c.MinAmount)
}

// MaxAmountLamports returns MAX_AMOUNT in lamports
func (c *Config) MaxAmountLamports() (uint64, error) {
	return common.SOLToLamports(c.MaxAmount)
}

// AmountBounds returns MIN_AMOUNT and MAX_AMOUNT in lamports.
func (c *Config) AmountBounds() (minAmount, maxAmount uint64, err error) {
	minAmount, err = c.MinAmountLamports()
	if err != nil {
		return 0, 0, fmt.Errorf("invalid MIN_AMOUNT: %w", err)
	}
	maxAmount, err = c.MaxAmountLamports()
	if err != nil {
		return 0, 0, fmt.Errorf("invalid MAX_AMOUNT: %w", err)
	}
	if maxAmount > 0 && minAmount > maxAmount {
		return 0, 0, errors.New("MIN_AMOUNT must not exceed MAX_AMOUNT")
	}
	return minAmount, maxAmount, nil
}

// RetryPolicy returns the retry policy for ledger and registry calls
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.RetryAttempts,
		InitialWait: c.RetryInitialWait,
		MaxWait:     c.RetryMaxWait,
	}
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetWalletFilePath returns path to .cwt file from configuration
func GetWalletFilePath() string {
	return Get().WalletFilePath
}

// GetSolanaRPCURL returns Solana RPC URL from configuration
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

var passwordBytes []byte

// ReadPassword prints prompt and reads a line from the terminal without echoing it.
// Caller must zero the returned slice after use.
func ReadPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return raw, nil
}

// PromptForPassword prompts the user for the wallet password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	raw, err := ReadPassword("Enter wallet password: ")
	if err != nil {
		return err
	}
	SetPassword(raw)
	clear(raw)
	return nil
}

// SetPassword stores a copy of password in memory.
func SetPassword(password []byte) {
	clear(passwordBytes)
	passwordBytes = make([]byte, len(password))
	copy(passwordBytes, password)
}

// GetWalletPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetWalletPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
