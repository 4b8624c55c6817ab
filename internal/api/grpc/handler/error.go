package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signpath/signpath-server/internal/model"
)

// User-facing messages. Details stay in the server log.
const (
	msgAuthFailed   = "Authentication failed"
	msgGenericError = "An error occurred"
)

func handleError(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidRole):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrStaleToken):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, msgGenericError)
	}
}
