package wire

import (
	"context"
	"errors"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"finledger/internal/common"
	"finledger/internal/token"
)

// MethodScopes maps every RPC method to the permission a caller's token
// must carry: read for queries, write for mutations. Verification happens
// in the server interceptor, before any handler logic runs.
var MethodScopes = map[string]string{
	LedgerAddTransactionMethod:        common.ScopeWrite,
	LedgerGetTransactionsMethod:       common.ScopeRead,
	ReportGenerateMonthlyReportMethod: common.ScopeRead,
	ReportExportReportMethod:          common.ScopeRead,
	ReportPublishReportMethod:         common.ScopeWrite,
	IdentityRegisterUserMethod:        common.ScopeWrite,
	IdentityLoginMethod:               common.ScopeRead,
	IdentityGetUserMethod:             common.ScopeRead,
}

type ctxKey string

const callerKey ctxKey = "caller"

// CallerFromContext returns the verified claims of the calling service,
// placed there by the server auth interceptor.
func CallerFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(callerKey).(*token.Claims)
	return claims, ok
}

func withServiceToken(ctx context.Context, tok string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.ServiceTokenHeaderName)
	md.Set(common.ServiceTokenHeaderName, tok)
	return metadata.NewOutgoingContext(ctx, md)
}

// TokenSource issues tokens for one audience and caches them until close
// to expiry, so a token is not re-signed on every call.
type TokenSource struct {
	authority *token.Authority
	audience  string
	scopes    []string

	mu      sync.Mutex
	cached  string
	expires time.Time
}

// NewTokenSource creates a source of tokens for the given audience and
// scope set.
func NewTokenSource(authority *token.Authority, audience string, scopes []string) *TokenSource {
	return &TokenSource{authority: authority, audience: audience, scopes: scopes}
}

// Token returns a cached token or issues a fresh one.
func (s *TokenSource) Token(now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" && now.Before(s.expires) {
		return s.cached, nil
	}

	tok, err := s.authority.Issue(s.audience, s.scopes, now)
	if err != nil {
		return "", err
	}
	s.cached = tok
	// Refresh a little early so an in-flight call never carries a token
	// that expires mid-verification.
	s.expires = now.Add(s.authority.Lifetime() - 30*time.Second)
	return tok, nil
}

// Interceptor returns a client interceptor that attaches a token from
// this source to every outgoing call.
func (s *TokenSource) Interceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		tok, err := s.Token(time.Now())
		if err != nil {
			return status.Errorf(codes.Internal, "issue service token: %v", err)
		}
		return invoker(withServiceToken(ctx, tok), method, req, reply, cc, opts...)
	}
}

// ServerAuthInterceptor verifies the service token of every incoming
// call against the callee's own identity as audience and the method's
// required scope. It refuses the call before the handler runs: absence
// of a token or a missing scope is an authorization failure, not a
// warning, and no partial execution takes place.
func ServerAuthInterceptor(authority *token.Authority, audience string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		var tok string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(common.ServiceTokenHeaderName); len(values) > 0 {
				tok = values[0]
			}
		}
		if tok == "" {
			return nil, status.Error(codes.Unauthenticated, "missing service token")
		}

		claims, err := authority.Verify(tok, audience, time.Now())
		if err != nil {
			switch {
			case errors.Is(err, common.ErrAudienceMismatch):
				return nil, status.Error(codes.PermissionDenied, common.ErrAudienceMismatch.Error())
			case errors.Is(err, common.ErrTokenExpired):
				return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
			default:
				return nil, status.Error(codes.Unauthenticated, common.ErrMalformedToken.Error())
			}
		}

		if required, ok := MethodScopes[info.FullMethod]; ok && !claims.HasScope(required) {
			return nil, status.Errorf(codes.PermissionDenied, "%s: %q", common.ErrMissingScope, required)
		}

		return handler(context.WithValue(ctx, callerKey, claims), req)
	}
}
