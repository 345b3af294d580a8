package stratum

import "context"

// Execute forwards an arbitrary named remote call with positional arguments
// to the transport. Server-reported failures are normalized into the *Error
// envelope before returning; the result is whatever the wire codec decoded.
func (conn *Connection) Execute(ctx context.Context, method string, args ...any) (any, error) {
	res, err := conn.call(ctx, method, args...)
	if err != nil {
		return nil, normalizeError(err)
	}
	return res, nil
}
