package loader

import "github.com/pkg/errors"

var (
	// ErrNoSkin is returned when an asset has no usable skin to build a skeleton from.
	ErrNoSkin = errors.New("loader: asset has no skin")

	// ErrUnsupportedAccessor is returned when accessor data has a type or component layout
	// the importer cannot convert.
	ErrUnsupportedAccessor = errors.New("loader: unsupported accessor layout")

	// ErrUnsupportedFormat is returned for file extensions no backend handles.
	ErrUnsupportedFormat = errors.New("loader: unsupported model format")
)
