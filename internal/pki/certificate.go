// Package pki implements the inter-service trust layer: loading of the
// persisted certificate material (root, intermediate, leaf plus the leaf
// key), validation of certificate chains against a trusted-root set, and
// construction of mutually authenticated TLS configurations that hook the
// chain validator into the handshake.
package pki

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// ParseCertificatePEM decodes the first CERTIFICATE block in data.
func ParseCertificatePEM(data []byte) (*x509.Certificate, error) {
	for len(data) > 0 {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		return x509.ParseCertificate(block.Bytes)
	}
	return nil, fmt.Errorf("no certificate found in PEM data")
}

// LoadCertificateFile reads a PEM-encoded certificate from disk.
func LoadCertificateFile(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read certificate %s: %w", path, err)
	}
	cert, err := ParseCertificatePEM(data)
	if err != nil {
		return nil, fmt.Errorf("parse certificate %s: %w", path, err)
	}
	return cert, nil
}

// Material is the trust material of one service: the trusted root, the
// intermediate, and the service's own leaf certificate with its private
// key. It is loaded once at process start and never re-read per request.
type Material struct {
	Root         *x509.Certificate
	Intermediate *x509.Certificate
	Leaf         tls.Certificate

	roots *RootSet
}

// LoadMaterial reads the three PEM certificates and the leaf private key
// that make up one service trust relationship.
func LoadMaterial(rootFile, intermediateFile, certFile, keyFile string) (*Material, error) {
	root, err := LoadCertificateFile(rootFile)
	if err != nil {
		return nil, err
	}

	intermediate, err := LoadCertificateFile(intermediateFile)
	if err != nil {
		return nil, err
	}

	leaf, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("load key pair %s: %w", certFile, err)
	}

	// Present the intermediate alongside the leaf so peers can rebuild
	// the chain up to their configured root.
	leaf.Certificate = append(leaf.Certificate, intermediate.Raw)

	return NewMaterial(root, intermediate, leaf), nil
}

// NewMaterial assembles Material from already-parsed certificates.
func NewMaterial(root, intermediate *x509.Certificate, leaf tls.Certificate) *Material {
	return &Material{
		Root:         root,
		Intermediate: intermediate,
		Leaf:         leaf,
		roots:        NewRootSet(root),
	}
}
