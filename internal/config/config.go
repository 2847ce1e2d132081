// Package config handles configuration for the finledger services,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings shared by the service daemons and the CLI.
//
// Fields:
//   - IdentityAddr / LedgerAddr / ReportAddr: gRPC endpoints; each daemon
//     binds its own and dials the others.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty means in-memory storage.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - ServiceTokenLifetime: validity of inter-service tokens.
//   - UserTokenLifetime: validity of user access tokens issued on login.
//   - LedgerTimeout: per-call deadline the report service applies to ledger queries.
//   - RootCertFile / IntermediateCertFile / CertFile / KeyFile: PEM files for
//     the mutual TLS identity. Empty CertFile disables TLS (tests, local runs).
//   - S3AccessKey / S3SecretKey / S3Bucket / S3Region / S3Endpoint: object
//     storage the report service publishes exports to.
type Config struct {
	IdentityAddr         string
	LedgerAddr           string
	ReportAddr           string
	DatabaseDSN          string
	SecretKey            string
	ServiceTokenLifetime time.Duration
	UserTokenLifetime    time.Duration
	LedgerTimeout        time.Duration
	RootCertFile         string
	IntermediateCertFile string
	CertFile             string
	KeyFile              string
	S3AccessKey          string
	S3SecretKey          string
	S3Bucket             string
	S3Region             string
	S3Endpoint           string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.IdentityAddr = ":50051"
	c.LedgerAddr = ":50052"
	c.ReportAddr = ":50053"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.ServiceTokenLifetime = 30 * time.Minute
	c.UserTokenLifetime = 24 * time.Hour
	c.LedgerTimeout = 5 * time.Second
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "reports"
	c.S3Region = "us-east-1"
	c.S3Endpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
