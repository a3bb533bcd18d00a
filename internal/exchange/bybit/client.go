package bybit

import (
	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// Client wraps the Bybit API client for public market data
type Client struct {
	httpClient *bybit_api.Client
	apiKey     string
	testnet    bool
	demo       bool
}

// Config holds the configuration for the Bybit client. Keys are optional:
// kline and ticker endpoints are public.
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
	Demo      bool   // Demo trading environment
	BaseURL   string // Overrides the environment URL when set
}

// NewClient creates a new Bybit client
func NewClient(config Config) *Client {
	return &Client{
		httpClient: bybit_api.NewBybitHttpClient(
			config.APIKey,
			config.APISecret,
			bybit_api.WithBaseURL(config.baseURL()),
		),
		apiKey:  config.APIKey,
		testnet: config.Testnet,
		demo:    config.Demo,
	}
}

func (c Config) baseURL() string {
	switch {
	case c.BaseURL != "":
		return c.BaseURL
	case c.Demo:
		return "https://api-demo.bybit.com"
	case c.Testnet:
		return bybit_api.TESTNET
	default:
		return bybit_api.MAINNET
	}
}

// HasCredentials reports whether an API key was configured
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.demo {
		return "demo"
	} else if c.testnet {
		return "testnet"
	}
	return "mainnet"
}
