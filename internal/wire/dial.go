package wire

import (
	"crypto/tls"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// Dial opens a client connection to a finledger service. tlsCfg is the
// mutual TLS configuration from the pki package, or nil for plaintext in
// development setups. The token source attaches a service token to every
// call.
func Dial(target string, tlsCfg *tls.Config, source *TokenSource) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if tlsCfg != nil {
		creds = credentials.NewTLS(tlsCfg)
	}
	return grpc.NewClient(target,
		grpc.WithTransportCredentials(creds),
		grpc.WithUnaryInterceptor(source.Interceptor()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
}
