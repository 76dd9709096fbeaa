package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"deckswipe-server/shared/interfaces"
	"deckswipe-server/shared/models"

	"go.uber.org/zap"
)

const maxCollectionBytes = 8 << 20

var _ interfaces.CollectionImporter = (*RemoteImporter)(nil)

// RemoteImporter fetches a JSON collection over HTTP.
type RemoteImporter struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewRemoteImporter(url string, timeout time.Duration, logger *zap.Logger) *RemoteImporter {
	return &RemoteImporter{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("RemoteImporter"),
	}
}

func (i *RemoteImporter) Import(ctx context.Context) (*models.ImportedCards, error) {
	log := i.logger.With(zap.String("url", i.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		log.Warn("Remote collection request failed", zap.Error(err))
		return nil, fmt.Errorf("fetch collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("Remote collection returned non-OK status", zap.Int("status_code", resp.StatusCode))
		return nil, fmt.Errorf("fetch collection: unexpected status %d", resp.StatusCode)
	}

	var file models.CollectionFile
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxCollectionBytes)).Decode(&file); err != nil {
		log.Warn("Failed to decode remote collection", zap.Error(err))
		return nil, fmt.Errorf("decode remote collection: %w", err)
	}

	imported, err := toImported(&file)
	if err != nil {
		return nil, err
	}
	log.Info("Collection loaded from remote", zap.Int("cards", len(imported.Cards)))
	return imported, nil
}
