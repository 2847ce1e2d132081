// Package pkitest generates throwaway certificate hierarchies for tests:
// a self-signed root, an intermediate signed by the root, and leaf
// certificates signed by the intermediate.
package pkitest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"finledger/internal/pki"
)

// Identity is a certificate together with its private key.
type Identity struct {
	Cert *x509.Certificate
	Key  *ecdsa.PrivateKey
}

func issue(t *testing.T, template *x509.Certificate, parent *Identity) *Identity {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		t.Fatalf("generate serial: %v", err)
	}
	template.SerialNumber = serial

	parentCert := template
	parentKey := key
	if parent != nil {
		parentCert = parent.Cert
		parentKey = parent.Key
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parentCert, &key.PublicKey, parentKey)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}

	return &Identity{Cert: cert, Key: key}
}

func caTemplate(cn string, notBefore, notAfter time.Time) *x509.Certificate {
	return &x509.Certificate{
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}
}

// NewRoot creates a self-signed root CA valid for one hour around now.
func NewRoot(t *testing.T, cn string) *Identity {
	now := time.Now()
	return issue(t, caTemplate(cn, now.Add(-time.Hour), now.Add(time.Hour)), nil)
}

// NewIntermediate creates an intermediate CA signed by parent.
func NewIntermediate(t *testing.T, parent *Identity, cn string) *Identity {
	now := time.Now()
	return issue(t, caTemplate(cn, now.Add(-time.Hour), now.Add(time.Hour)), parent)
}

// NewLeaf creates an end-entity certificate signed by parent, usable for
// both TLS server and client authentication.
func NewLeaf(t *testing.T, parent *Identity, cn string) *Identity {
	now := time.Now()
	return NewLeafWithWindow(t, parent, cn, now.Add(-time.Hour), now.Add(time.Hour))
}

// NewLeafWithWindow is NewLeaf with an explicit validity window, for
// expiry tests.
func NewLeafWithWindow(t *testing.T, parent *Identity, cn string, notBefore, notAfter time.Time) *Identity {
	template := &x509.Certificate{
		Subject:     pkix.Name{CommonName: cn},
		NotBefore:   notBefore,
		NotAfter:    notAfter,
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		DNSNames:    []string{"localhost"},
	}
	return issue(t, template, parent)
}

// TLSCertificate packages the identity and any extra chain certificates
// into a tls.Certificate ready for a handshake.
func (id *Identity) TLSCertificate(t *testing.T, chain ...*x509.Certificate) tls.Certificate {
	t.Helper()
	cert := tls.Certificate{
		Certificate: [][]byte{id.Cert.Raw},
		PrivateKey:  id.Key,
		Leaf:        id.Cert,
	}
	for _, c := range chain {
		cert.Certificate = append(cert.Certificate, c.Raw)
	}
	return cert
}

// CertPEM returns the certificate in PEM encoding.
func (id *Identity) CertPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: id.Cert.Raw})
}

// KeyPEM returns the private key in PKCS#8 PEM encoding.
func (id *Identity) KeyPEM(t *testing.T) []byte {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(id.Key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

// WriteFiles writes the identity's certificate and key under dir and
// returns their paths, for tests exercising file-based loading.
func (id *Identity) WriteFiles(t *testing.T, dir, name string) (certFile, keyFile string) {
	t.Helper()
	certFile = filepath.Join(dir, name+".crt")
	keyFile = filepath.Join(dir, name+".key")
	if err := os.WriteFile(certFile, id.CertPEM(), 0o600); err != nil {
		t.Fatalf("write cert: %v", err)
	}
	if err := os.WriteFile(keyFile, id.KeyPEM(t), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return certFile, keyFile
}

// Material assembles pki.Material for a service whose leaf was signed by
// the given intermediate under the given root.
func Material(t *testing.T, root, intermediate, leaf *Identity) *pki.Material {
	t.Helper()
	return pki.NewMaterial(root.Cert, intermediate.Cert, leaf.TLSCertificate(t, intermediate.Cert))
}
