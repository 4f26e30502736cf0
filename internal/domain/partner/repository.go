package partner

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository defines persistence operations for clients
type ClientRepository interface {
	// Save creates or updates a client together with its branches in one
	// transaction.
	Save(ctx context.Context, client *Client) error
	// FindByID finds a client by ID, branches included
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	// FindAll lists clients matching the optional company-name query
	FindAll(ctx context.Context, query string, offset, limit int) ([]Client, int64, error)
}
