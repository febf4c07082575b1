package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// Config holds runtime configuration for the connector.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"55s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty" validate:"oneof=pretty json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	CTPRegion       string `envconfig:"CTP_REGION" validate:"required"`
	CTPProjectKey   string `envconfig:"CTP_PROJECT_KEY" validate:"required"`
	CTPClientID     string `envconfig:"CTP_CLIENT_ID" validate:"required"`
	CTPClientSecret string `envconfig:"CTP_CLIENT_SECRET" validate:"required"`
	CTPScope        string `envconfig:"CTP_SCOPE"`
	CTPAuthURL      string `envconfig:"CTP_AUTH_URL" validate:"omitempty,url"`
	CTPAPIURL       string `envconfig:"CTP_API_URL" validate:"omitempty,url"`

	LanguageCode             string `envconfig:"LANGUAGE_CODE" default:"en-US" validate:"required"`
	CurrencyCode             string `envconfig:"CURRENCY_CODE" default:"USD" validate:"required,len=3"`
	CountryCode              string `envconfig:"COUNTRY_CODE" validate:"omitempty,len=2"`
	DistributionChannelID    string `envconfig:"DISTRIBUTION_CHANNEL_ID"`
	InventorySupplyChannelID string `envconfig:"INVENTORY_SUPPLY_CHANNEL_ID"`

	OrdergrooveAPIURL      string        `envconfig:"OG_API_URL" validate:"required,url"`
	OrdergrooveAPIKey      string        `envconfig:"OG_API_KEY" validate:"required"`
	OrdergrooveHTTPTimeout time.Duration `envconfig:"OG_HTTP_TIMEOUT" default:"30s"`

	ProductStoreURL string `envconfig:"PRODUCT_STORE_URL"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required values and locale codes.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: nil")
	}
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			names := make([]string, 0, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				names = append(names, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("config: invalid fields: %s", strings.Join(names, ", "))
		}
		return fmt.Errorf("config: %w", err)
	}
	if _, err := language.Parse(c.LanguageCode); err != nil {
		return fmt.Errorf("config: language code %q: %w", c.LanguageCode, err)
	}
	if _, err := currency.ParseISO(c.CurrencyCode); err != nil {
		return fmt.Errorf("config: currency code %q: %w", c.CurrencyCode, err)
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
