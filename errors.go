package gridplane

import "errors"

// ErrNotFound is returned when no symbol grid can be extracted from the
// image, either because the binarizer saw no usable contrast or because the
// candidate corners project outside the image. Callers retry with other
// candidates rather than treating it as fatal.
var ErrNotFound = errors.New("gridplane: symbol not found")
