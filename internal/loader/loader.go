// Package loader batches the reply lookups of a comment thread so a post
// page costs one query for all replies, however many top-level comments it
// has.
package loader

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader"

	"github.com/emilythestrangee/social-blog/backend/internal/models"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

type contextKey string

const key = contextKey("loaders")

// Loaders holds the request-scoped loaders.
type Loaders struct {
	RepliesByRootID *dataloader.Loader
}

// New builds a fresh set of loaders reading from st.
func New(st *store.Store) *Loaders {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		results := make([]*dataloader.Result, len(keys))

		rootIDs := make([]int, len(keys))
		for i, k := range keys {
			id, err := strconv.Atoi(k.String())
			if err != nil {
				for j := range results {
					results[j] = &dataloader.Result{Error: err}
				}
				return results
			}
			rootIDs[i] = id
		}

		replies, err := st.RepliesByRootIDs(ctx, rootIDs)
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		for i, id := range rootIDs {
			results[i] = &dataloader.Result{Data: replies[id]}
		}
		return results
	}

	return &Loaders{
		RepliesByRootID: dataloader.NewBatchedLoader(batchFn,
			dataloader.WithWait(time.Millisecond),
			dataloader.WithClearCacheOnBatch()),
	}
}

// Key is the loader key for a top-level comment id.
func Key(rootID int) dataloader.Key {
	return dataloader.StringKey(strconv.Itoa(rootID))
}

// Middleware puts a fresh set of loaders on every request context.
func Middleware(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithLoaders(c.Request.Context(), New(st))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, key, l)
}

// For returns the request's loaders, or a fresh set when none were attached.
func For(ctx context.Context, st *store.Store) *Loaders {
	if l, ok := ctx.Value(key).(*Loaders); ok {
		return l
	}
	return New(st)
}

// Replies loads the replies below every root in one batch and returns them
// keyed by root id.
func (l *Loaders) Replies(ctx context.Context, rootIDs []int) (map[int][]models.Comment, error) {
	thunks := make([]dataloader.Thunk, len(rootIDs))
	for i, id := range rootIDs {
		thunks[i] = l.RepliesByRootID.Load(ctx, Key(id))
	}

	out := make(map[int][]models.Comment, len(rootIDs))
	for i, thunk := range thunks {
		data, err := thunk()
		if err != nil {
			return nil, err
		}
		replies, _ := data.([]models.Comment)
		out[rootIDs[i]] = replies
	}
	return out, nil
}
