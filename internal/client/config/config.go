// Package config handles configuration for the postline CLI, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the client.
//
// Fields:
//   - StoreBackend: document store backend ("mongo", "postgres" or "memory").
//   - StoreDSN: Mongo URI or PostgreSQL DSN, depending on the backend.
//   - StoreDatabase: Mongo database name (ignored by other backends).
//   - SecretKey: HMAC secret for session tokens (HS256). Do not use the
//     test default in prod.
//   - SessionTokenValidity: session token lifetime.
//   - S3User / S3Password: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	StoreBackend         string
	StoreDSN             string
	StoreDatabase        string
	SecretKey            string
	SessionTokenValidity time.Duration
	S3User               string
	S3Password           string
	S3Bucket             string
	S3Region             string
	S3BaseEndpoint       string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.StoreBackend = "mongo"
	c.StoreDSN = "mongodb://127.0.0.1:27017"
	c.StoreDatabase = "postline"
	c.SecretKey = "secretKey"
	c.SessionTokenValidity = 60 * time.Minute
	c.S3User = "admin"
	c.S3Password = "secretpassword"
	c.S3Bucket = "postimages"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
