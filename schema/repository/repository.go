// Package repository persists named schema documents behind a small
// key-value contract: get/put/list/delete/close over id -> schema.Node.
package repository

import (
	"context"

	"github.com/agentflow/agentcore/schema"
)

// Repository is the storage contract a schema registry is built on.
type Repository interface {
	Get(ctx context.Context, id string) (*schema.Node, error)
	Put(ctx context.Context, id string, node *schema.Node) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
