package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is embedded by the domain repositories so they share the gorm
// connection plumbing instead of each carrying their own field.
type Base struct {
	conn *gorm.DB
}

// NewBase wraps the connection for embedding.
func NewBase(conn *gorm.DB) Base {
	return Base{conn: conn}
}

// Conn returns the connection scoped to ctx so cancellation and
// deadlines propagate into the queries built on it.
func (b Base) Conn(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.conn
	}
	return b.conn.WithContext(ctx)
}
