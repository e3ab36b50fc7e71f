package utils

import (
	"io"
)

// Close closes c and ignores any error.
// Use for best-effort cleanup in defer where error handling is not critical.
func Close(c io.Closer) {
	_ = c.Close()
}

// CloseInto closes c and stores the close error in *errp unless an earlier
// error is already there. Use it in a defer on files opened for writing,
// where a failed Close means lost data.
func CloseInto(c io.Closer, errp *error) {
	if err := c.Close(); err != nil && *errp == nil {
		*errp = err
	}
}
