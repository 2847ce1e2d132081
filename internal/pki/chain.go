package pki

import (
	"bytes"
	"crypto/x509"
	"errors"
	"fmt"
	"time"
)

// Chain is an ordered certificate chain, root first, leaf last. Any depth
// of one or more certificates is allowed.
type Chain []*x509.Certificate

var (
	// ErrEmptyChain is returned when the chain contains no certificates.
	ErrEmptyChain = errors.New("empty certificate chain")

	// ErrUntrustedRoot is returned when the top certificate of the chain
	// is not bit-identical to any member of the trusted-root set.
	ErrUntrustedRoot = errors.New("untrusted root certificate")
)

// ExpiredCertificateError reports a certificate whose validity window does
// not contain the validation time.
type ExpiredCertificateError struct {
	Subject   string
	NotBefore time.Time
	NotAfter  time.Time
}

func (e *ExpiredCertificateError) Error() string {
	return fmt.Sprintf("certificate %q outside validity window [%s, %s]",
		e.Subject, e.NotBefore.Format(time.RFC3339), e.NotAfter.Format(time.RFC3339))
}

// BrokenLinkError reports a certificate whose issuer does not match its
// parent's subject, or whose signature does not verify under the parent's
// public key.
type BrokenLinkError struct {
	ChildSubject   string
	ExpectedIssuer string
}

func (e *BrokenLinkError) Error() string {
	return fmt.Sprintf("certificate %q is not signed by %q", e.ChildSubject, e.ExpectedIssuer)
}

// RootSet is a set of trusted root certificates. Membership is decided on
// the raw DER bytes, so a re-issued root with the same subject does not
// count as trusted.
type RootSet struct {
	raw map[string]struct{}
}

// NewRootSet builds a RootSet from the given certificates.
func NewRootSet(certs ...*x509.Certificate) *RootSet {
	s := &RootSet{raw: make(map[string]struct{}, len(certs))}
	for _, c := range certs {
		s.raw[string(c.Raw)] = struct{}{}
	}
	return s
}

// Contains reports whether cert is bit-identical to a member of the set.
func (s *RootSet) Contains(cert *x509.Certificate) bool {
	_, ok := s.raw[string(cert.Raw)]
	return ok
}

// Validate checks that the chain is anchored in the trusted-root set, that
// every certificate's validity window contains now (checked root to leaf,
// first violation reported), and that every non-root certificate is issued
// and signed by the certificate above it. On success it returns the leaf
// certificate's subject common name, which callers use as the
// authenticated peer identity of the connection.
//
// Validate is a pure function of its inputs: no fetching, no side effects.
func Validate(chain Chain, roots *RootSet, now time.Time) (string, error) {
	if len(chain) == 0 {
		return "", ErrEmptyChain
	}

	if !roots.Contains(chain[0]) {
		return "", ErrUntrustedRoot
	}

	for _, cert := range chain {
		if now.Before(cert.NotBefore) || now.After(cert.NotAfter) {
			return "", &ExpiredCertificateError{
				Subject:   cert.Subject.CommonName,
				NotBefore: cert.NotBefore,
				NotAfter:  cert.NotAfter,
			}
		}
	}

	for i := 1; i < len(chain); i++ {
		parent, child := chain[i-1], chain[i]
		if !bytes.Equal(child.RawIssuer, parent.RawSubject) {
			return "", &BrokenLinkError{
				ChildSubject:   child.Subject.CommonName,
				ExpectedIssuer: parent.Subject.CommonName,
			}
		}
		if err := child.CheckSignatureFrom(parent); err != nil {
			return "", &BrokenLinkError{
				ChildSubject:   child.Subject.CommonName,
				ExpectedIssuer: parent.Subject.CommonName,
			}
		}
	}

	return chain[len(chain)-1].Subject.CommonName, nil
}
