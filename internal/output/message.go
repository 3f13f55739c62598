package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/mrz1836/punkmint/internal/notify"
)

// prefix returns the marker printed in front of a notice.
func prefix(level notify.Level) string {
	switch level {
	case notify.Success:
		return "✅ "
	case notify.Warning:
		return "⚠️  "
	case notify.Error:
		return "❌ "
	default:
		return "ℹ️  "
	}
}

// WriteNotice prints one notice with its level marker.
func WriteNotice(w io.Writer, n notify.Notice) {
	_, _ = fmt.Fprintln(w, prefix(n.Level)+n.Message)
}

// NoticeWriter prints notices to a writer. It is the notice display of the
// non-interactive commands. A notice identical to the previous one is not
// printed again.
type NoticeWriter struct {
	mu   sync.Mutex
	w    io.Writer
	last *notify.Notice
}

// Compile-time interface check
var _ notify.Notifier = (*NoticeWriter)(nil)

// NewNoticeWriter creates a NoticeWriter printing to w.
func NewNoticeWriter(w io.Writer) *NoticeWriter {
	return &NoticeWriter{w: w}
}

// Notify implements notify.Notifier.
func (nw *NoticeWriter) Notify(n notify.Notice) {
	nw.mu.Lock()
	defer nw.mu.Unlock()
	if nw.last != nil && *nw.last == n {
		return
	}
	nw.last = &n
	WriteNotice(nw.w, n)
}
