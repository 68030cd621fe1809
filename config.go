package cdp

import (
	"encoding/json"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/log"
)

// DefaultAPIURL is the production platform endpoint.
const DefaultAPIURL = "https://api.cdp.coinbase.com/platform"

// Config carries everything the client needs to reach the platform. Values
// come from the environment (optionally via a .env file); the API key can
// alternatively be supplied as the JSON key file downloaded from the
// platform portal.
type Config struct {
	// APIKeyID names the API key, e.g.
	// "organizations/.../apiKeys/...".
	APIKeyID string `env:"CDP_API_KEY_ID" env-default:""`
	// APIKeySecret is the key's private half: a PEM-encoded EC private
	// key or a base64-encoded Ed25519 key.
	APIKeySecret string `env:"CDP_API_KEY_SECRET" env-default:""`
	// APIKeyFile points at a JSON key file; its contents take effect
	// when APIKeyID/APIKeySecret are not both set directly.
	APIKeyFile string `env:"CDP_API_KEY_FILE" env-default:""`
	// APIURL is the platform base URL.
	APIURL string `env:"CDP_API_URL" env-default:"https://api.cdp.coinbase.com/platform"`
	// Source tags outbound requests in the correlation header, letting
	// tools built on the SDK identify themselves.
	Source string `env:"CDP_SOURCE" env-default:""`
	// SourceVersion accompanies Source.
	SourceVersion string `env:"CDP_SOURCE_VERSION" env-default:""`
	// Debug enables request/response debug logging.
	Debug bool `env:"CDP_DEBUG" env-default:"false"`
}

// keyFile mirrors the JSON document the platform portal produces when an
// API key is generated.
type keyFile struct {
	Name       string `json:"name"`
	PrivateKey string `json:"privateKey"`
}

// LoadConfig builds configuration from environment variables. A .env file
// in the working directory is loaded first when present; missing is fine.
// Key presence is not enforced here: NewClient reports ErrNotConfigured
// when no credential materialized.
func LoadConfig(logger log.Logger) (Config, error) {
	logger = logger.WithName("config")

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using process environment")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "read environment")
	}

	if cfg.APIKeyID != "" && cfg.APIKeySecret != "" {
		return cfg, nil
	}

	if cfg.APIKeyFile != "" {
		if err := cfg.readKeyFile(); err != nil {
			return Config{}, err
		}
		logger.Debug("loaded API key from file", "path", cfg.APIKeyFile)
	}

	return cfg, nil
}

// readKeyFile loads the API key pair from the JSON key file.
func (c *Config) readKeyFile() error {
	raw, err := os.ReadFile(c.APIKeyFile)
	if err != nil {
		return errors.Wrapf(err, "read key file %s", c.APIKeyFile)
	}

	var kf keyFile
	if err := json.Unmarshal(raw, &kf); err != nil {
		return errors.Wrapf(err, "parse key file %s", c.APIKeyFile)
	}
	if kf.Name == "" || kf.PrivateKey == "" {
		return errors.Errorf("key file %s is missing name or privateKey", c.APIKeyFile)
	}

	c.APIKeyID = kf.Name
	c.APIKeySecret = kf.PrivateKey
	return nil
}
