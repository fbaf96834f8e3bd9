package flux

import (
	"net"
	"net/http"
	"time"
)

type Config struct {
	url string

	token   string
	version string

	client *http.Client
}

type Option func(*Config)

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func WithToken(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

// WithVersion sets the Replicate model version. The value is either a bare
// version id or a JSON object of additional top-level request fields.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.version = version
	}
}

// defaultClient bounds the connect and overall request time. Image
// generation providers regularly take tens of seconds to respond.
func defaultClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: 3 * time.Second,
	}

	return &http.Client{
		Timeout: 60 * time.Second,

		Transport: &http.Transport{
			DialContext: dialer.DialContext,
		},
	}
}
