package shader

import "errors"

var (
	// ErrUnsupportedVariant is returned for keys that name no program.
	ErrUnsupportedVariant = errors.New("shader: unsupported variant")

	// ErrUnknownProjection is returned when a ray-trace program is requested
	// for a projection without a WGSL inverse.
	ErrUnknownProjection = errors.New("shader: unknown projection")

	// ErrUnknownTransfer is returned by ParseTransfer.
	ErrUnknownTransfer = errors.New("shader: unknown transfer function")
)
