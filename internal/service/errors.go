package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/gea/studyabroad/internal/checklist"
	"github.com/gea/studyabroad/internal/storage"
	"github.com/gea/studyabroad/internal/validation"
)

// errInvalid marks request problems discovered after decoding.
var errInvalid = errors.New("invalid argument")

// toConnectError maps domain and storage errors onto connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs), errors.Is(err, errInvalid):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, checklist.ErrItemNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAborted, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
