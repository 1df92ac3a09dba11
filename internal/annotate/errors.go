package annotate

import "errors"

// ErrNotFound reports an input path that does not exist.
var ErrNotFound = errors.New("annotate: file not found")

// ErrEmptyFile reports an input file with no content to annotate.
var ErrEmptyFile = errors.New("annotate: file is empty")
