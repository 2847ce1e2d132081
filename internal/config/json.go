package config

import (
	"encoding/json"
	"os"

	"finledger/internal/flagx"
	"finledger/internal/timex"
)

// jsonConfig mirrors Config for JSON unmarshalling. It uses timex.Duration
// for interval fields, which accepts both string values such as "30m" and
// integer nanoseconds. Absent fields keep their current value.
type jsonConfig struct {
	IdentityAddr         *string         `json:"identity_addr"`
	LedgerAddr           *string         `json:"ledger_addr"`
	ReportAddr           *string         `json:"report_addr"`
	DatabaseDSN          *string         `json:"database_dsn"`
	SecretKey            *string         `json:"secret_key"`
	ServiceTokenLifetime *timex.Duration `json:"service_token_lifetime"`
	UserTokenLifetime    *timex.Duration `json:"user_token_lifetime"`
	LedgerTimeout        *timex.Duration `json:"ledger_timeout"`
	RootCertFile         *string         `json:"root_cert_file"`
	IntermediateCertFile *string         `json:"intermediate_cert_file"`
	CertFile             *string         `json:"cert_file"`
	KeyFile              *string         `json:"key_file"`
	S3AccessKey          *string         `json:"s3_access_key"`
	S3SecretKey          *string         `json:"s3_secret_key"`
	S3Bucket             *string         `json:"s3_bucket"`
	S3Region             *string         `json:"s3_region"`
	S3Endpoint           *string         `json:"s3_endpoint"`
}

func overlayString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// parseJSON loads configuration from the JSON file named by the -c or
// -config flag. Without the flag no file is loaded. A file that cannot
// be read or parsed is a startup failure, so the function panics.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFile()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlayString(&config.IdentityAddr, c.IdentityAddr)
	overlayString(&config.LedgerAddr, c.LedgerAddr)
	overlayString(&config.ReportAddr, c.ReportAddr)
	overlayString(&config.DatabaseDSN, c.DatabaseDSN)
	overlayString(&config.SecretKey, c.SecretKey)
	if c.ServiceTokenLifetime != nil {
		config.ServiceTokenLifetime = c.ServiceTokenLifetime.Duration
	}
	if c.UserTokenLifetime != nil {
		config.UserTokenLifetime = c.UserTokenLifetime.Duration
	}
	if c.LedgerTimeout != nil {
		config.LedgerTimeout = c.LedgerTimeout.Duration
	}
	overlayString(&config.RootCertFile, c.RootCertFile)
	overlayString(&config.IntermediateCertFile, c.IntermediateCertFile)
	overlayString(&config.CertFile, c.CertFile)
	overlayString(&config.KeyFile, c.KeyFile)
	overlayString(&config.S3AccessKey, c.S3AccessKey)
	overlayString(&config.S3SecretKey, c.S3SecretKey)
	overlayString(&config.S3Bucket, c.S3Bucket)
	overlayString(&config.S3Region, c.S3Region)
	overlayString(&config.S3Endpoint, c.S3Endpoint)
}
