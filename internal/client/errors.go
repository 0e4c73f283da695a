package client

import (
	"errors"
	"fmt"
)

// SendError describes a failed delivery attempt. Permanent failures mean the
// destination was rejected and retrying is pointless; everything else is
// transient and the message should stay pending for the next tick.
type SendError struct {
	StatusCode int
	Permanent  bool
	Reason     string
	Err        error
}

func (e *SendError) Error() string {
	kind := "transient"
	if e.Permanent {
		kind = "permanent"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s send failure: status=%d %s", kind, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s send failure: %s", kind, e.Reason)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// IsPermanent reports whether err is a permanent delivery rejection. Unknown
// error types are treated as transient so the record is retried rather than
// dead-ended.
func IsPermanent(err error) bool {
	var se *SendError
	return errors.As(err, &se) && se.Permanent
}
