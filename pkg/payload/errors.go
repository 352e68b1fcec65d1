package payload

import "errors"

var (
	// ErrNotDataURL indicates the input does not start with the data: scheme.
	ErrNotDataURL = errors.New("payload: not a data URL")

	// ErrUnsupportedMediaType indicates a media type other than application/pdf.
	ErrUnsupportedMediaType = errors.New("payload: unsupported media type")

	// ErrUnsupportedEncoding indicates an encoding other than base64.
	ErrUnsupportedEncoding = errors.New("payload: unsupported encoding")

	// ErrEmptyPayload indicates a data URL with no payload after the comma.
	ErrEmptyPayload = errors.New("payload: empty payload")
)
