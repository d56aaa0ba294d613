package common

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"discount-system/vitrina/internal/constants"
)

var (
	ErrNoFilePart     = errors.New(constants.MsgNoFilePart)
	ErrNoSelectedFile = errors.New(constants.MsgNoSelectedFile)
)

// UploadedFile returns the file sent in the multipart field.
// A field sent with an empty filename is ErrNoSelectedFile; an absent field is ErrNoFilePart.
func UploadedFile(r *http.Request, field string, maxMemory int64) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil, ErrNoFilePart
		}
		return nil, nil, err
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			// multipart puts parts without a filename into the value map
			if _, ok := r.MultipartForm.Value[field]; ok {
				return nil, nil, ErrNoSelectedFile
			}
			return nil, nil, ErrNoFilePart
		}
		return nil, nil, err
	}

	if strings.TrimSpace(header.Filename) == "" {
		file.Close()
		return nil, nil, ErrNoSelectedFile
	}
	return file, header, nil
}

// IsBodyTooLarge reports whether err came from an http.MaxBytesReader limit
func IsBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
