package process

import (
	"bytes"
	"strings"
	"sync"

	"go.trai.ch/warren/internal/core/ports"
)

// capture buffers process output up to a limit and mirrors complete lines to the debug log.
type capture struct {
	logger ports.Logger
	stream string
	limit  int

	mu      sync.Mutex
	buf     bytes.Buffer
	pending []byte
}

func newCapture(logger ports.Logger, stream string, limit int) *capture {
	return &capture{logger: logger, stream: stream, limit: limit}
}

// Write never fails; bytes beyond the limit are dropped from the buffer but still logged.
func (c *capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if room := c.limit - c.buf.Len(); room > 0 {
		if len(p) > room {
			c.buf.Write(p[:room])
		} else {
			c.buf.Write(p)
		}
	}

	c.pending = append(c.pending, p...)
	for {
		i := bytes.IndexByte(c.pending, '\n')
		if i < 0 {
			break
		}
		c.logLine(c.pending[:i])
		c.pending = c.pending[i+1:]
	}

	return len(p), nil
}

// Close flushes a trailing partial line.
func (c *capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) > 0 {
		c.logLine(c.pending)
		c.pending = nil
	}
	return nil
}

func (c *capture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func (c *capture) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if msg == "" {
		return
	}
	c.logger.Debug(msg, "stream", c.stream)
}
