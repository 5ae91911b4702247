package assets

import (
	"fmt"

	"xrmodels/internal/logger"
	"xrmodels/internal/workers/workerspool"
)

// Processor turns raw payload data into a resolved asset.
type Processor[D, T any] func(D) (T, error)

// Loader submits processing work to a worker pool. A Loader without a pool
// processes synchronously.
type Loader struct {
	pool *workerspool.Pool
	log  logger.Logger
}

// NewLoader creates a Loader backed by pool.
func NewLoader(pool *workerspool.Pool, log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{pool: pool, log: log}
}

// LoadFromData reserves an entry in storage and returns its handle at once.
// process runs later on the loader's pool; its failure is recorded on the
// entry and logged, never returned to the caller.
func LoadFromData[D, T any](l *Loader, data D, process Processor[D, T], storage *Storage[T]) Handle[T] {
	h := storage.reserve()
	task := func() {
		v, err := process(data)
		if err != nil {
			l.log.Warn("asset processing failed",
				logger.F("storage", storage.Name()),
				logger.F("asset_id", h.id.String()),
				logger.Err(err))
			storage.resolve(h.id, nil, err)
			return
		}
		storage.resolve(h.id, &v, nil)
	}

	if l.pool == nil {
		task()
		return h
	}
	if err := l.pool.Submit(task); err != nil {
		l.log.Error("asset submission rejected",
			logger.F("storage", storage.Name()),
			logger.F("asset_id", h.id.String()),
			logger.Err(err))
		storage.resolve(h.id, nil, fmt.Errorf("submit: %w", err))
	}
	return h
}

// Wait blocks until all submitted processing has finished.
func (l *Loader) Wait() {
	if l.pool != nil {
		l.pool.Wait()
	}
}
