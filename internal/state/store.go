// Package state persists snapshots of resolved projects in SQLite.
// Each index run writes one snapshot; snapshots are never updated.
package state

import (
	"context"
	"time"

	"github.com/leapstack-labs/projgraph/pkg/core"
)

// Store records and reads project snapshots.
type Store interface {
	SaveSnapshot(ctx context.Context, root string, pc *core.ProjectConfig) (string, error)
	LatestSnapshot(ctx context.Context) (*Snapshot, error)
	ObjectsForSnapshot(ctx context.Context, id string) ([]ObjectRecord, error)
	DependenciesForSnapshot(ctx context.Context, id string) ([]DependencyRecord, error)
	Close() error
}

// Snapshot is one indexed view of a project.
type Snapshot struct {
	ID          string    `json:"id"`
	Root        string    `json:"root"`
	CreatedAt   time.Time `json:"created_at"`
	ObjectCount int       `json:"object_count"`
}

// ObjectRecord is a stored config object.
type ObjectRecord struct {
	Type             string         `json:"type"`
	Name             string         `json:"name"`
	BaseModule       string         `json:"base_module"`
	Path             string         `json:"path"`
	InheritanceChain []string       `json:"inheritance_chain"`
	Options          map[string]any `json:"options"`
}

// DependencyRecord is a stored dependency edge.
type DependencyRecord struct {
	ObjectType     string `json:"object_type"`
	Object         string `json:"object"`
	Slot           string `json:"slot"`
	DependencyType string `json:"dependency_type"`
	Dependency     string `json:"dependency"`
}

var _ Store = (*SQLiteStore)(nil)
