package notify

import (
	"context"
	"fmt"
	"io"
)

// Writer prints reminders to a terminal or any other writer.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Name() string { return "stdout" }

func (n *Writer) Notify(_ context.Context, title, body string) error {
	_, err := fmt.Fprintf(n.w, "🔔 %s: %s\n", title, body)
	return err
}
