package stratum

import "context"

// authenticate issues the login call when credentials are configured. With no
// user and no password it completes without touching the transport.
func (conn *Connection) authenticate(ctx context.Context, t Transport) error {
	if conn.config.User == "" && conn.config.Password == "" {
		return nil
	}
	_, err := t.Call(ctx, methodLogin, conn.config.User, conn.config.Password)
	return normalizeError(err)
}
