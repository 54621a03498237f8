// Package cleanup removes remote file objects left behind by deleted
// cases and clients. The database is the source of truth for whether an
// entity exists; the object store may transiently retain orphans, which
// the sweep reclaims later. Nothing here ever blocks or fails the
// database deletion that triggered it.
package cleanup

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"lexdesk/internal/storage"

	"github.com/sirupsen/logrus"
)

// Result reports a purge outcome explicitly instead of swallowing
// per-object failures.
type Result struct {
	DeletedCount int     `json:"deletedCount"`
	Errors       []error `json:"-"`
}

// ReferenceChecker answers whether a remote object key is still
// referenced by a live database row.
type ReferenceChecker interface {
	DocumentExistsByKey(ctx context.Context, storageKey string) (bool, error)
	UserExistsByProfileKey(ctx context.Context, storageKey string) (bool, error)
}

type Coordinator struct {
	objects storage.ObjectStore
	logger  *logrus.Logger
}

func New(objects storage.ObjectStore, logger *logrus.Logger) *Coordinator {
	return &Coordinator{objects: objects, logger: logger}
}

// PurgePrefix deletes every remote object under prefix. Deletes run
// concurrently and all are waited on; one object failing does not stop
// the rest, and a total failure surfaces only in the Result.
func (c *Coordinator) PurgePrefix(ctx context.Context, prefix string) Result {
	objects, err := c.objects.List(ctx, prefix)
	if err != nil {
		c.logger.WithError(err).WithField("prefix", prefix).Warn("cleanup could not list remote objects")
		return Result{Errors: []error{fmt.Errorf("list %s: %w", prefix, err)}}
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		res Result
	)

	for _, obj := range objects {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()

			if err := c.objects.Delete(ctx, key); err != nil {
				mu.Lock()
				res.Errors = append(res.Errors, fmt.Errorf("delete %s: %w", key, err))
				mu.Unlock()
				return
			}

			mu.Lock()
			res.DeletedCount++
			mu.Unlock()
		}(obj.Key)
	}

	wg.Wait()

	if len(res.Errors) > 0 {
		c.logger.WithFields(logrus.Fields{
			"prefix":  prefix,
			"deleted": res.DeletedCount,
			"failed":  len(res.Errors),
		}).Warn("cleanup finished with partial failures")
	}

	return res
}

// SweepOrphans walks the case and profile namespaces and deletes
// objects older than olderThan that no database row references.
func (c *Coordinator) SweepOrphans(ctx context.Context, refs ReferenceChecker, olderThan time.Duration) (Result, error) {
	cutoff := time.Now().Add(-olderThan)

	var res Result
	for _, prefix := range []string{storage.CaseNamespace, storage.ProfileNamespace} {
		objects, err := c.objects.List(ctx, prefix)
		if err != nil {
			return res, fmt.Errorf("list %s: %w", prefix, err)
		}

		for _, obj := range objects {
			if obj.LastModified.After(cutoff) {
				continue
			}

			referenced, err := c.referenced(ctx, refs, obj.Key)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("check %s: %w", obj.Key, err))
				continue
			}
			if referenced {
				continue
			}

			if err := c.objects.Delete(ctx, obj.Key); err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("delete %s: %w", obj.Key, err))
				continue
			}

			c.logger.WithField("key", obj.Key).Info("reclaimed orphaned object")
			res.DeletedCount++
		}
	}

	return res, nil
}

func (c *Coordinator) referenced(ctx context.Context, refs ReferenceChecker, key string) (bool, error) {
	if strings.HasPrefix(key, storage.ProfileNamespace) {
		return refs.UserExistsByProfileKey(ctx, key)
	}
	return refs.DocumentExistsByKey(ctx, key)
}
