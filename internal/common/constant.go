package common

// ServiceTokenHeaderName is the gRPC metadata key used to carry the
// service-to-service authorization token on outbound requests.
const ServiceTokenHeaderName = "service_token"

// Service identities. Each one doubles as the token audience a caller must
// scope its token to when talking to that service.
const (
	IdentityServiceName = "identity_service"
	LedgerServiceName   = "ledger_service"
	ReportServiceName   = "report_service"
	CLIClientName       = "finledger_cli"
)

// Permission scopes carried inside service tokens. Queries require
// ScopeRead, mutations require ScopeWrite.
const (
	ScopeRead  = "read"
	ScopeWrite = "write"
)
