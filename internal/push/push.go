package push

import "context"

// Intent describes one pending push notification: a device address
// plus the rendered title, body and data payload. It is consumed once
// and never retried.
type Intent struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Dispatcher is a best-effort notifier. Send errors are reported to
// the caller, which logs and swallows them; they must never block live
// delivery.
type Dispatcher interface {
	Send(ctx context.Context, intent Intent) error
}
