package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUpload  = errors.New("image upload failed")
	ErrRemoval = errors.New("image removal failed")
)

func NewUploadError(key string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpload,
		Details:    fmt.Sprintf("Failed to upload %s", key),
		Cause:      cause,
		Field:      "image",
	}
}

// NewRemovalError describes a failed cleanup of stored objects. It is logged, never returned to clients.
func NewRemovalError(paths []string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrRemoval,
		Details:    fmt.Sprintf("Failed to remove %s", strings.Join(paths, ", ")),
		Cause:      cause,
	}
}

func IsUploadError(err error) bool {
	return errors.Is(err, ErrUpload)
}

func IsRemovalError(err error) bool {
	return errors.Is(err, ErrRemoval)
}
