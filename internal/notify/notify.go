// Package notify carries user-facing notices from the mint workflow to
// whatever is displaying it.
package notify

import "fmt"

// Level is the severity of a notice.
type Level int

// Notice levels.
const (
	Info Level = iota
	Success
	Warning
	Error
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Notice is one message for the user.
type Notice struct {
	Level   Level
	Message string
}

// Notifier displays notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Discard drops every notice.
//
//nolint:gochecknoglobals // stateless sink
var Discard Notifier = NotifierFunc(func(Notice) {})

// Infof sends an informational notice.
func Infof(n Notifier, format string, args ...any) {
	n.Notify(Notice{Level: Info, Message: fmt.Sprintf(format, args...)})
}

// Successf sends a success notice.
func Successf(n Notifier, format string, args ...any) {
	n.Notify(Notice{Level: Success, Message: fmt.Sprintf(format, args...)})
}

// Warnf sends a warning notice.
func Warnf(n Notifier, format string, args ...any) {
	n.Notify(Notice{Level: Warning, Message: fmt.Sprintf(format, args...)})
}

// Errorf sends an error notice.
func Errorf(n Notifier, format string, args ...any) {
	n.Notify(Notice{Level: Error, Message: fmt.Sprintf(format, args...)})
}
