package container

import "errors"

var (
	ErrBadSignature               = errors.New("container: not a GIF87a/GIF89a signature")
	ErrUnknownBlockLabel          = errors.New("container: unknown block label")
	ErrUnknownExtensionLabel      = errors.New("container: unknown extension sub-label")
	ErrMissingExtensionTerminator = errors.New("container: extension block missing zero terminator")
	ErrUnsupportedDisposal        = errors.New("container: unsupported disposal method")
	ErrInterlaceUnsupported       = errors.New("container: interlaced images are unsupported")
	ErrSortUnsupported            = errors.New("container: sorted color tables are unsupported")
	ErrCodeSizeOutOfRange         = errors.New("container: LZW minimum code size outside [2, 12]")
	ErrTooManyFrames              = errors.New("container: frame count exceeds 4096")
	ErrFrameOutsideCanvas         = errors.New("container: frame sub-rectangle exceeds canvas bounds")
)
