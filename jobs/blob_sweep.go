package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/casavia/casavia/internal/observability"
	"github.com/casavia/casavia/internal/platform/storage"
	"github.com/casavia/casavia/internal/properties"
	"github.com/casavia/casavia/internal/users"
)

// BlobReferences loads every blob path the records still point at.
type BlobReferences interface {
	ReferencedPaths(ctx context.Context) (map[string]struct{}, error)
}

// PGBlobReferences reads referenced paths from PostgreSQL.
type PGBlobReferences struct {
	pool *pgxpool.Pool
}

// NewBlobReferences constructs a PGBlobReferences.
func NewBlobReferences(pool *pgxpool.Pool) *PGBlobReferences {
	return &PGBlobReferences{pool: pool}
}

// ReferencedPaths collects user profile photos and property gallery paths.
func (r *PGBlobReferences) ReferencedPaths(ctx context.Context) (map[string]struct{}, error) {
	refs := make(map[string]struct{})

	rows, err := r.pool.Query(ctx,
		`SELECT profile_photo FROM users WHERE profile_photo IS NOT NULL AND profile_photo <> ''`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			rows.Close()
			return nil, err
		}
		refs[path] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT COALESCE(gallery, '[]'::jsonb) FROM properties`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var gallery []string
		if err := rows.Scan(&gallery); err != nil {
			return nil, err
		}
		for _, path := range gallery {
			refs[path] = struct{}{}
		}
	}
	return refs, rows.Err()
}

// BlobSweeper removes orphaned blobs from the store.
type BlobSweeper struct {
	refs    BlobReferences
	blobs   storage.Store
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewBlobSweeper constructs a BlobSweeper.
func NewBlobSweeper(refs BlobReferences, blobs storage.Store, logger *slog.Logger, metrics *observability.Metrics) *BlobSweeper {
	return &BlobSweeper{refs: refs, blobs: blobs, logger: logger, metrics: metrics}
}

// Handle processes TaskBlobSweep tasks.
func (s *BlobSweeper) Handle(ctx context.Context, t *asynq.Task) error {
	var payload BlobSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := s.metrics.TrackJob(TaskBlobSweep)
	return tracker.End(s.Sweep(ctx))
}

// Sweep deletes every stored blob no record references.
func (s *BlobSweeper) Sweep(ctx context.Context) error {
	refs, err := s.refs.ReferencedPaths(ctx)
	if err != nil {
		return err
	}

	removed := 0
	for _, bucket := range []string{users.ProfilePhotoBucket, properties.GalleryBucket} {
		paths, err := s.blobs.List(ctx, bucket)
		if err != nil {
			return err
		}
		for _, path := range paths {
			if _, ok := refs[path]; ok {
				continue
			}
			if err := s.blobs.Delete(ctx, path); err != nil {
				if s.logger != nil {
					s.logger.Warn("sweep blob", slog.String("path", path), slog.Any("error", err))
				}
				continue
			}
			removed++
		}
	}
	if s.logger != nil {
		s.logger.Info("blob sweep complete", slog.Int("removed", removed))
	}
	return nil
}
