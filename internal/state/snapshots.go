package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/projgraph/pkg/core"
)

// ErrNoSnapshot is returned when the store holds no snapshot yet.
var ErrNoSnapshot = errors.New("no snapshot recorded")

// SaveSnapshot writes the project's objects and dependency edges as a new snapshot
// in a single transaction and returns its ID.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, root string, pc *core.ProjectConfig) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("database not opened")
	}

	id := generateID()
	objects := pc.Children()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, root, created_at, object_count) VALUES (?, ?, ?, ?)`,
		id, root, s.now().UTC().Format(time.RFC3339Nano), len(objects),
	); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	for i, obj := range objects {
		chain, err := json.Marshal(obj.InheritanceChain())
		if err != nil {
			return "", fmt.Errorf("encode inheritance chain of %s: %w", obj.Name, err)
		}
		options, err := json.Marshal(obj.Options)
		if err != nil {
			return "", fmt.Errorf("encode options of %s: %w", obj.Name, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO objects (snapshot_id, type, name, base_module, path, position, inheritance_chain, options)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, obj.TypeName(), obj.Name, obj.BaseModule(), obj.Path(), i, string(chain), string(options),
		); err != nil {
			return "", fmt.Errorf("insert object %s: %w", obj.Name, err)
		}

		deps := obj.Dependencies()
		for _, slot := range obj.DependencySlots() {
			dep := deps[slot]
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO dependencies (snapshot_id, object_type, object_name, slot, dependency_type, dependency_name)
				VALUES (?, ?, ?, ?, ?, ?)`,
				id, obj.TypeName(), obj.Name, slot, dep.TypeName(), dep.Name,
			); err != nil {
				return "", fmt.Errorf("insert dependency %s.%s: %w", obj.Name, slot, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// LatestSnapshot returns the most recent snapshot, or ErrNoSnapshot.
func (s *SQLiteStore) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var snap Snapshot
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, root, created_at, object_count FROM snapshots
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&snap.ID, &snap.Root, &createdAt, &snap.ObjectCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}

	snap.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot time: %w", err)
	}
	return &snap, nil
}

// ObjectsForSnapshot returns a snapshot's objects in their original order.
func (s *SQLiteStore) ObjectsForSnapshot(ctx context.Context, id string) ([]ObjectRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, name, base_module, path, inheritance_chain, options
		FROM objects WHERE snapshot_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ObjectRecord
	for rows.Next() {
		var rec ObjectRecord
		var chain, options string
		if err := rows.Scan(&rec.Type, &rec.Name, &rec.BaseModule, &rec.Path, &chain, &options); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		if err := json.Unmarshal([]byte(chain), &rec.InheritanceChain); err != nil {
			return nil, fmt.Errorf("decode inheritance chain of %s: %w", rec.Name, err)
		}
		if err := json.Unmarshal([]byte(options), &rec.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s: %w", rec.Name, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// DependenciesForSnapshot returns a snapshot's dependency edges.
func (s *SQLiteStore) DependenciesForSnapshot(ctx context.Context, id string) ([]DependencyRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.object_type, d.object_name, d.slot, d.dependency_type, d.dependency_name
		FROM dependencies d
		JOIN objects o ON o.snapshot_id = d.snapshot_id AND o.type = d.object_type AND o.name = d.object_name
		WHERE d.snapshot_id = ?
		ORDER BY o.position, d.slot
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query dependencies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []DependencyRecord
	for rows.Next() {
		var rec DependencyRecord
		if err := rows.Scan(&rec.ObjectType, &rec.Object, &rec.Slot, &rec.DependencyType, &rec.Dependency); err != nil {
			return nil, fmt.Errorf("scan dependency: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}
