package commonModels

import "errors"

// fatal, abort the whole call
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrNotAFile          = errors.New("path is not a regular file")
	ErrDirectoryNotFound = errors.New("directory does not exist")
	ErrNotADirectory     = errors.New("path is not a directory")
)

// per file, folded into the IngestionResult
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrInvalidEncoding   = errors.New("invalid UTF-8 encoding")
	ErrEmptyPayload      = errors.New("empty payload")
	ErrNoValidDocuments  = errors.New("no valid documents found")
)

// IsFatal reports whether err must abort the call instead of being recorded against a file.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrNotAFile) ||
		errors.Is(err, ErrDirectoryNotFound) ||
		errors.Is(err, ErrNotADirectory)
}
