package wire

import (
	"context"

	"google.golang.org/grpc"

	"finledger/internal/ledger"
)

// Full method names of the ledger service.
const (
	LedgerAddTransactionMethod  = "/finledger.Ledger/AddTransaction"
	LedgerGetTransactionsMethod = "/finledger.Ledger/GetTransactions"
)

// LedgerServer is the server contract of the ledger service.
type LedgerServer interface {
	AddTransaction(ctx context.Context, req *AddTransactionRequest) (*Transaction, error)
	GetTransactions(ctx context.Context, req *GetTransactionsRequest) (*GetTransactionsResponse, error)
}

func ledgerAddTransactionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AddTransactionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServer).AddTransaction(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LedgerAddTransactionMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServer).AddTransaction(ctx, req.(*AddTransactionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func ledgerGetTransactionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetTransactionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServer).GetTransactions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LedgerGetTransactionsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServer).GetTransactions(ctx, req.(*GetTransactionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// LedgerServiceDesc describes the ledger service to gRPC.
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: "finledger.Ledger",
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddTransaction", Handler: ledgerAddTransactionHandler},
		{MethodName: "GetTransactions", Handler: ledgerGetTransactionsHandler},
	},
}

// RegisterLedgerServer registers a LedgerServer implementation.
func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// LedgerClient calls the ledger service over a client connection.
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

// NewLedgerClient wraps an established connection.
func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

func (c *LedgerClient) AddTransaction(ctx context.Context, req *AddTransactionRequest) (*Transaction, error) {
	out := new(Transaction)
	if err := c.cc.Invoke(ctx, LedgerAddTransactionMethod, req, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerClient) GetTransactions(ctx context.Context, req *GetTransactionsRequest) (*GetTransactionsResponse, error) {
	out := new(GetTransactionsResponse)
	if err := c.cc.Invoke(ctx, LedgerGetTransactionsMethod, req, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// QueryTransactions fetches a date range as domain records, which lets
// the reporting aggregator use this client directly as its ledger source.
func (c *LedgerClient) QueryTransactions(ctx context.Context, userID, startDate, endDate string) ([]ledger.Transaction, error) {
	resp, err := c.GetTransactions(ctx, &GetTransactionsRequest{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return nil, err
	}

	out := make([]ledger.Transaction, 0, len(resp.Transactions))
	for _, tx := range resp.Transactions {
		out = append(out, tx.ToLedger())
	}
	return out, nil
}
