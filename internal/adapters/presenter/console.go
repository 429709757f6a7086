package presenter

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Console is a Notifier that prints alerts to a writer.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole creates a notifier writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Alert(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "! %s\n", msg); err != nil {
		slog.Error("write alert", "error", err)
	}
}
