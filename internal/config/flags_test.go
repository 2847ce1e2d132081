package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags_OverridesValues(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-i", "identity:7000",
		"-l", "ledger:7001",
		"-r", "report:7002",
		"-d", "postgres://localhost/finledger",
		"-s", "flag_secret",
		"-t", "45",
		"-cert", "/pki/ledger.pem",
		"-key", "/pki/ledger-key.pem",
		"-b", "flag-bucket",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "identity:7000", cfg.IdentityAddr)
	assert.Equal(t, "ledger:7001", cfg.LedgerAddr)
	assert.Equal(t, "report:7002", cfg.ReportAddr)
	assert.Equal(t, "postgres://localhost/finledger", cfg.DatabaseDSN)
	assert.Equal(t, "flag_secret", cfg.SecretKey)
	assert.Equal(t, 45*time.Minute, cfg.ServiceTokenLifetime)
	assert.Equal(t, "/pki/ledger.pem", cfg.CertFile)
	assert.Equal(t, "/pki/ledger-key.pem", cfg.KeyFile)
	assert.Equal(t, "flag-bucket", cfg.S3Bucket)
}

func Test_parseFlags_IgnoresForeignFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-config", "somewhere.json", "-s", "flag_secret", "-unknown", "x"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "flag_secret", cfg.SecretKey)
	assert.Equal(t, ":50051", cfg.IdentityAddr)
}
