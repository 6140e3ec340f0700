package exports

import "errors"

// ErrNotFound indicates the export does not exist for the user.
var ErrNotFound = errors.New("export not found")

// ErrInvalidInput indicates the request was malformed or missing data.
var ErrInvalidInput = errors.New("invalid input")

// ErrRenderFailed indicates the render backend could not produce a valid PDF.
// The message shown to users is deliberately generic.
var ErrRenderFailed = errors.New("PDF generation failed, please try again")

// ErrNotReady indicates a download was requested before the render finished.
var ErrNotReady = errors.New("export is not ready yet")
