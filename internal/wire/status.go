package wire

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finledger/internal/common"
	"finledger/internal/export"
	"finledger/internal/report"
)

// StatusError maps a domain error to the gRPC status the services agree
// on: validation problems are InvalidArgument, auth failures are
// Unauthenticated or PermissionDenied, downstream failures are
// Unavailable, everything else is Internal. Errors that already carry a
// status pass through unchanged.
func StatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && status.Code(err) != codes.Unknown {
		return err
	}

	var downstream *report.DownstreamError
	var unsupported *export.UnsupportedFormatError

	switch {
	case errors.Is(err, common.ErrorInvalidArgument),
		errors.Is(err, report.ErrInvalidMonthFormat),
		errors.As(err, &unsupported):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.As(err, &downstream):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
