package extract

import "errors"

// Per-annotation failure kinds. None of them stops a batch.
var (
	ErrUnknownImage   = errors.New("image id not found")
	ErrImageLoad      = errors.New("image load failed")
	ErrNoSegmentation = errors.New("no segmentation")
	ErrEmptyRegion    = errors.New("empty region")
	ErrWrite          = errors.New("cutout write failed")
	ErrInternal       = errors.New("internal error")
)

// ErrorCode is the stable name of a failure kind, used in the run manifest.
type ErrorCode string

const (
	CodeNone           ErrorCode = ""
	CodeUnknownImage   ErrorCode = "UNKNOWN_IMAGE"
	CodeImageLoad      ErrorCode = "IMAGE_LOAD_FAILED"
	CodeNoSegmentation ErrorCode = "NO_SEGMENTATION"
	CodeEmptyRegion    ErrorCode = "EMPTY_REGION"
	CodeWrite          ErrorCode = "WRITE_FAILED"
	CodeInternal       ErrorCode = "INTERNAL"
)

func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return CodeNone
	case errors.Is(err, ErrUnknownImage):
		return CodeUnknownImage
	case errors.Is(err, ErrImageLoad):
		return CodeImageLoad
	case errors.Is(err, ErrNoSegmentation):
		return CodeNoSegmentation
	case errors.Is(err, ErrEmptyRegion):
		return CodeEmptyRegion
	case errors.Is(err, ErrWrite):
		return CodeWrite
	default:
		return CodeInternal
	}
}

// Expected reports whether err is a normal "nothing to cut" outcome rather
// than a problem with the inputs.
func Expected(err error) bool {
	return errors.Is(err, ErrNoSegmentation) || errors.Is(err, ErrEmptyRegion)
}
