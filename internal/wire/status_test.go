package wire

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finledger/internal/common"
	"finledger/internal/export"
	"finledger/internal/report"
)

func TestStatusError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"nil passes through", nil, codes.OK},
		{"invalid argument", fmt.Errorf("%w: amount must be positive", common.ErrorInvalidArgument), codes.InvalidArgument},
		{"bad month", report.ErrInvalidMonthFormat, codes.InvalidArgument},
		{"unsupported format", &export.UnsupportedFormatError{Format: "xml"}, codes.InvalidArgument},
		{"unauthorized", common.ErrorUnauthorized, codes.Unauthenticated},
		{"forbidden", common.ErrorForbidden, codes.PermissionDenied},
		{"not found", common.ErrorNotFound, codes.NotFound},
		{"already exists", common.ErrorAlreadyExists, codes.AlreadyExists},
		{"downstream", &report.DownstreamError{Detail: "ledger", Err: errors.New("boom")}, codes.Unavailable},
		{"anything else", errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(StatusError(tt.err)))
		})
	}
}

func TestStatusError_KeepsExistingStatus(t *testing.T) {
	orig := status.Error(codes.PermissionDenied, "scope \"write\" required")
	assert.Equal(t, orig, StatusError(orig))
}
