package media

import "errors"

var (
	// ErrInvalidIdentifier rejects filenames that could escape the uploads
	// directory. Checked before any disk access.
	ErrInvalidIdentifier = errors.New("invalid file identifier")

	// ErrNotFound means no original file exists for the requested identifier.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidParameter covers malformed quality or width values.
	ErrInvalidParameter = errors.New("invalid transform parameter")

	// ErrUnsupportedFormat is returned for target encodings outside the
	// supported set. Requests are rejected rather than silently served the
	// original bytes.
	ErrUnsupportedFormat = errors.New("unsupported target format")

	// ErrDecode means the stored original could not be decoded as an image.
	ErrDecode = errors.New("could not decode source image")
)
