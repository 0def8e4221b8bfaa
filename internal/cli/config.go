package cli

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/mcoot/blogfront/internal/tokenstore"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string `env:"BLOGCTL_SERVER, default=http://localhost:8080"`
	TokenFile string `env:"BLOGCTL_TOKEN_FILE"`
	MePath    string `env:"BLOGCTL_ME_PATH, default=/api/auth/me"`
	Output    string `env:"BLOGCTL_OUTPUT, default=text"`
	Verbose   bool   `env:"BLOGCTL_VERBOSE, default=false"`
}

// DefaultConfig returns a Config populated from the environment
func DefaultConfig(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var c Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &c,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("loading blogctl config: %w", err)
	}
	if c.TokenFile == "" {
		c.TokenFile = tokenstore.DefaultFilePath()
	}
	return &c, nil
}

// Validate checks flag values once they are parsed
func (c *Config) Validate() error {
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("invalid --output %q: must be text or json", c.Output)
	}
	if c.ServerURL == "" {
		return fmt.Errorf("--server must not be empty")
	}
	return nil
}
