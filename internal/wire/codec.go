// Package wire defines the RPC surface shared by the finledger services:
// the CBOR codec used on the wire, the message types, hand-written gRPC
// service descriptors and clients, and the interceptors that move service
// tokens through call metadata. There is no generated code here; the
// message types are plain structs encoded with CBOR.
package wire

import (
	"github.com/fxamacker/cbor/v2"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of the CBOR codec. Clients must
// dial with grpc.CallContentSubtype(CodecName) so both ends agree on it.
const CodecName = "cbor"

type cborCodec struct{}

func (cborCodec) Marshal(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

func (cborCodec) Unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

func (cborCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(cborCodec{})
}
