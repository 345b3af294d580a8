package stratum

import (
	"context"
	"fmt"
)

// KeyspaceDef describes a keyspace as reported by describe_keyspace.
type KeyspaceDef struct {
	// Name is the keyspace name.
	Name string
	// Strategy is the replication strategy class of the keyspace.
	Strategy string
	// Tables lists the column families defined in the keyspace.
	Tables []string
}

// DescribeKeyspace fetches the server-side definition of a keyspace.
func (conn *Connection) DescribeKeyspace(ctx context.Context, keyspace string) (*KeyspaceDef, error) {
	res, err := conn.call(ctx, methodDescribeKeyspace, keyspace)
	if err != nil {
		return nil, normalizeError(err)
	}
	def, ok := res.(*KeyspaceDef)
	if !ok {
		return nil, fmt.Errorf("stratum: unexpected describe_keyspace result %T", res)
	}
	return def, nil
}

// Use validates that the keyspace exists and switches the active keyspace.
// When the lookup fails the switch call is never issued, so the active
// keyspace is never left half-selected.
func (conn *Connection) Use(ctx context.Context, keyspace string) error {
	if _, err := conn.DescribeKeyspace(ctx, keyspace); err != nil {
		return err
	}
	if _, err := conn.call(ctx, methodSetKeyspace, keyspace); err != nil {
		return normalizeError(err)
	}
	conn.mu.Lock()
	conn.keyspace = keyspace
	conn.mu.Unlock()
	return nil
}
