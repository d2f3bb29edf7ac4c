package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	ClientURL   string `yaml:"client_url"`
}

// GatewayConfig holds credentials and endpoints for the push-payment gateway.
type GatewayConfig struct {
	BaseURL        string   `yaml:"base_url"`
	ConsumerKey    string   `yaml:"consumer_key"`
	ConsumerSecret string   `yaml:"consumer_secret"`
	ShortCode      string   `yaml:"short_code"`
	Passkey        string   `yaml:"passkey"`
	CallbackURL    string   `yaml:"callback_url"`
	Timeout        Duration `yaml:"timeout"`
}

// VerificationConfig carries the pricing and duration policy for the
// verified badge. Both are deployment policy, not code.
type VerificationConfig struct {
	FeeAmount        string `yaml:"fee_amount"`
	FeeCurrency      string `yaml:"fee_currency"`
	ActivePeriodDays int    `yaml:"active_period_days"`
}

func (c *VerificationConfig) validate() error {
	if _, err := decimal.NewFromString(c.FeeAmount); err != nil {
		return fmt.Errorf("invalid verification.fee_amount %q: %w", c.FeeAmount, err)
	}
	if c.ActivePeriodDays <= 0 {
		return fmt.Errorf("verification.active_period_days must be positive, got %d", c.ActivePeriodDays)
	}
	return nil
}

// Fee returns the parsed verification fee. validate() guarantees it parses.
func (c *VerificationConfig) Fee() decimal.Decimal {
	fee, _ := decimal.NewFromString(c.FeeAmount)
	return fee
}

// ActivePeriod returns the duration a verified badge stays active.
func (c *VerificationConfig) ActivePeriod() time.Duration {
	return time.Duration(c.ActivePeriodDays) * 24 * time.Hour
}

// ReconcilerConfig bounds the payment status poll loop.
type ReconcilerConfig struct {
	PollInterval Duration `yaml:"poll_interval"`
	PollCeiling  Duration `yaml:"poll_ceiling"`
}

// SweeperConfig controls the lapsed-verification sweep.
type SweeperConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Interval Duration `yaml:"interval"`
}
