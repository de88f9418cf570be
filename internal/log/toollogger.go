package log

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"
)

// ToolLogger records the raw output of external tools.
type ToolLogger interface {
	Log(tool string, output []byte)
}

type toolLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewToolLogger returns a ToolLogger writing to w. A nil writer discards everything.
func NewToolLogger(w io.Writer) ToolLogger {
	return &toolLogger{w: w}
}

// Log writes one "tool | line" entry per output line. No timestamps are
// added so repeated runs produce comparable logs.
func (l *toolLogger) Log(tool string, output []byte) {
	if l.w == nil || len(bytes.TrimSpace(output)) == 0 {
		return
	}

	var buf bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(output))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		fmt.Fprintf(&buf, "%s | %s\n", tool, sc.Text())
	}

	l.mu.Lock()
	_, _ = l.w.Write(buf.Bytes())
	l.mu.Unlock()
}
