package grpc

import (
	"errors"
	"sort"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
)

// toStatus converts a service error into a gRPC status. Field details of
// validation errors travel as a BadRequest detail.
func toStatus(method string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		logger.Error("Unhandled error", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}

	st := status.New(codeFor(de), de.Error())
	if len(de.Fields) == 0 {
		return st.Err()
	}
	br := &errdetails.BadRequest{}
	fields := make([]string, 0, len(de.Fields))
	for field := range de.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       field,
			Description: de.Fields[field],
		})
	}
	detailed, derr := st.WithDetails(br)
	if derr != nil {
		logger.Warn("Failed to attach error details", "method", method, "error", derr)
		return st.Err()
	}
	return detailed.Err()
}

func codeFor(de *domain.Error) codes.Code {
	switch de.Kind {
	case domain.KindNotFound:
		return codes.NotFound
	case domain.KindUnauthorized:
		return codes.PermissionDenied
	case domain.KindValidation:
		if de.Code == domain.ErrPhaseIncomplete.Code {
			return codes.FailedPrecondition
		}
		return codes.InvalidArgument
	case domain.KindConflict:
		if de.Code == domain.ErrDuplicateAssignment.Code {
			return codes.AlreadyExists
		}
		return codes.Aborted
	case domain.KindAlreadyFinalized:
		return codes.FailedPrecondition
	}
	return codes.Unknown
}
