package l2cap

import (
	"errors"
	"fmt"
)

// ErrReconnect signals that the channel hit a transport failure mid
// stream and the whole session must be torn down and rebuilt. The
// channel never reconnects itself; callers catch this exactly one
// level up and resume from their saved position.
var ErrReconnect = errors.New("reconnection required")

// ConnectError reports a failed connection attempt. It is fatal to the
// current attempt; the session retry loop decides whether to start
// another one.
type ConnectError struct {
	Addr string
	Port uint16
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("l2cap: connect %s port %d: %v", e.Addr, e.Port, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }
