package publish

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Console prints readings as single lines.
type Console struct {
	w io.Writer
}

// NewConsole returns a Publisher writing to w, or stdout when w is nil.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

func (c *Console) Publish(r Reading) error {
	_, err := fmt.Fprintf(c.w, "%s raw=%d units=%.4f\n", r.Timestamp.Format(time.RFC3339), r.Raw, r.Units)
	return err
}

func (c *Console) Close() error { return nil }
