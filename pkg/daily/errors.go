package daily

import (
	"errors"
	"fmt"

	"github.com/harrisonrobin/prdaily/pkg/datefmt"
	"github.com/harrisonrobin/prdaily/pkg/files"
)

var (
	ErrInvalidDateFormat = datefmt.ErrInvalidDateFormat
	ErrFileNotFound      = files.ErrFileNotFound
	ErrFileAlreadyExists = files.ErrFileAlreadyExists
	ErrIO                = files.ErrIO
	ErrNoDataFound       = errors.New("no data found")
)

// OpError is a failed operation as shown to the user.
type OpError struct {
	Kind error
	Msg  string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	return msg
}

func (e *OpError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func opError(kind error, msg, path string, err error) error {
	return &OpError{Kind: kind, Msg: msg, Path: path, Err: err}
}

// classify turns a provider error into an OpError with a readable message.
func classify(err error, path string) error {
	var op *OpError
	if errors.As(err, &op) {
		return err
	}
	switch {
	case errors.Is(err, ErrFileNotFound):
		return opError(ErrFileNotFound, "Archivo no encontrado", path, err)
	case errors.Is(err, ErrFileAlreadyExists):
		return opError(ErrFileAlreadyExists, "Archivo ya existe", path, err)
	case errors.Is(err, ErrInvalidDateFormat):
		return opError(ErrInvalidDateFormat, err.Error(), "", err)
	default:
		return opError(ErrIO, fmt.Sprintf("Error de E/S (%v)", err), path, err)
	}
}
