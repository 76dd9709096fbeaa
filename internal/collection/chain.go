package collection

import (
	"context"
	"errors"
	"fmt"

	"deckswipe-server/shared/interfaces"
	"deckswipe-server/shared/models"

	"go.uber.org/zap"
)

// ErrNoSources is returned by a Chain without importers.
var ErrNoSources = errors.New("no collection sources configured")

// Chain tries importers in order and returns the first non-empty collection.
type Chain struct {
	importers []interfaces.CollectionImporter
	logger    *zap.Logger
}

var _ interfaces.CollectionImporter = (*Chain)(nil)

func NewChain(logger *zap.Logger, importers ...interfaces.CollectionImporter) *Chain {
	return &Chain{importers: importers, logger: logger.Named("CollectionChain")}
}

// NewSourceChain orders the local and remote sources. Either may be nil.
func NewSourceChain(local, remote interfaces.CollectionImporter, remoteFirst bool, logger *zap.Logger) *Chain {
	ordered := []interfaces.CollectionImporter{local, remote}
	if remoteFirst {
		ordered = []interfaces.CollectionImporter{remote, local}
	}
	importers := make([]interfaces.CollectionImporter, 0, 2)
	for _, imp := range ordered {
		if imp != nil {
			importers = append(importers, imp)
		}
	}
	return NewChain(logger, importers...)
}

func (c *Chain) Import(ctx context.Context) (*models.ImportedCards, error) {
	if len(c.importers) == 0 {
		return nil, ErrNoSources
	}
	var errs []error
	for idx, imp := range c.importers {
		imported, err := imp.Import(ctx)
		if err == nil && !imported.Empty() {
			return imported, nil
		}
		if err == nil {
			err = fmt.Errorf("source %d: empty collection", idx)
		}
		c.logger.Warn("Collection source failed, trying next", zap.Int("source", idx), zap.Error(err))
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}
