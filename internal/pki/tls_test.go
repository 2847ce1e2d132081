package pki_test

import (
	"crypto/tls"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finledger/internal/pki"
	"finledger/internal/pki/pkitest"
)

// handshake runs a full mutual TLS handshake over an in-memory pipe and
// returns the two handshake errors.
func handshake(t *testing.T, serverCfg, clientCfg *tls.Config) (serverErr, clientErr error) {
	t.Helper()

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	done := make(chan error, 1)
	go func() {
		done <- tls.Server(serverConn, serverCfg).Handshake()
	}()

	clientErr = tls.Client(clientConn, clientCfg).Handshake()
	serverErr = <-done
	return serverErr, clientErr
}

func TestMutualTLS_Handshake(t *testing.T) {
	root := pkitest.NewRoot(t, "finledger-root")
	inter := pkitest.NewIntermediate(t, root, "finledger-intermediate")

	serverMat := pkitest.Material(t, root, inter, pkitest.NewLeaf(t, inter, "ledger_service"))
	clientMat := pkitest.Material(t, root, inter, pkitest.NewLeaf(t, inter, "report_service"))

	serverErr, clientErr := handshake(t, serverMat.ServerTLSConfig(), clientMat.ClientTLSConfig("ledger_service"))
	require.NoError(t, serverErr)
	require.NoError(t, clientErr)
}

func TestMutualTLS_RejectsForeignClient(t *testing.T) {
	root := pkitest.NewRoot(t, "finledger-root")
	inter := pkitest.NewIntermediate(t, root, "finledger-intermediate")
	serverMat := pkitest.Material(t, root, inter, pkitest.NewLeaf(t, inter, "ledger_service"))

	// Client chained under an unrelated root.
	foreignRoot := pkitest.NewRoot(t, "foreign-root")
	foreignInter := pkitest.NewIntermediate(t, foreignRoot, "foreign-intermediate")
	clientMat := pkitest.Material(t, foreignRoot, foreignInter, pkitest.NewLeaf(t, foreignInter, "impostor"))

	serverErr, _ := handshake(t, serverMat.ServerTLSConfig(), clientMat.ClientTLSConfig("ledger_service"))
	assert.Error(t, serverErr)
}

func TestMutualTLS_RejectsForeignServer(t *testing.T) {
	foreignRoot := pkitest.NewRoot(t, "foreign-root")
	foreignInter := pkitest.NewIntermediate(t, foreignRoot, "foreign-intermediate")
	serverMat := pkitest.Material(t, foreignRoot, foreignInter, pkitest.NewLeaf(t, foreignInter, "impostor"))

	root := pkitest.NewRoot(t, "finledger-root")
	inter := pkitest.NewIntermediate(t, root, "finledger-intermediate")
	clientMat := pkitest.Material(t, root, inter, pkitest.NewLeaf(t, inter, "report_service"))

	_, clientErr := handshake(t, serverMat.ServerTLSConfig(), clientMat.ClientTLSConfig("ledger_service"))
	assert.Error(t, clientErr)
}

func TestLoadMaterial(t *testing.T) {
	dir := t.TempDir()

	root := pkitest.NewRoot(t, "finledger-root")
	inter := pkitest.NewIntermediate(t, root, "finledger-intermediate")
	leaf := pkitest.NewLeaf(t, inter, "ledger_service")

	rootFile, _ := root.WriteFiles(t, dir, "rootCA")
	interFile, _ := inter.WriteFiles(t, dir, "intermediateCA")
	certFile, keyFile := leaf.WriteFiles(t, dir, "ledger_service")

	mat, err := pki.LoadMaterial(rootFile, interFile, certFile, keyFile)
	require.NoError(t, err)

	assert.Equal(t, "finledger-root", mat.Root.Subject.CommonName)
	assert.Equal(t, "finledger-intermediate", mat.Intermediate.Subject.CommonName)
	// The leaf presents the intermediate as part of its chain.
	assert.Len(t, mat.Leaf.Certificate, 2)
}

func TestLoadCertificateFile_Missing(t *testing.T) {
	_, err := pki.LoadCertificateFile("/nonexistent/rootCA.crt")
	assert.Error(t, err)
}

func TestParseCertificatePEM_Garbage(t *testing.T) {
	_, err := pki.ParseCertificatePEM([]byte("not pem at all"))
	assert.Error(t, err)
}
