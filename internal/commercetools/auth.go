package commercetools

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultScope is requested when no scope is configured.
const DefaultScope = "default"

// Config describes the commercetools project and price selection.
type Config struct {
	Region       string
	ProjectKey   string
	ClientID     string
	ClientSecret string
	// Scope is a space separated scope list.
	Scope   string
	AuthURL string
	APIURL  string

	CurrencyCode          string
	CountryCode           string
	DistributionChannelID string
}

// Scopes returns the configured scopes or DefaultScope.
func (c Config) Scopes() []string {
	scopes := strings.Fields(c.Scope)
	if len(scopes) == 0 {
		return []string{DefaultScope}
	}
	return scopes
}

func (c Config) authHost() string {
	if c.AuthURL != "" {
		return strings.TrimRight(c.AuthURL, "/")
	}
	return fmt.Sprintf("https://auth.%s.commercetools.com", c.Region)
}

func (c Config) apiHost() string {
	if c.APIURL != "" {
		return strings.TrimRight(c.APIURL, "/")
	}
	return fmt.Sprintf("https://api.%s.commercetools.com", c.Region)
}

// AuthConfig builds the client-credentials flow used to obtain bearer tokens.
func AuthConfig(cfg Config) *clientcredentials.Config {
	return &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.authHost() + "/oauth/token",
		Scopes:       cfg.Scopes(),
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
}
