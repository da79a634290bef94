// internal/workers/data-access/index-audit/indexer.go
package indexaudit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "archai-workers/internal/common/errors"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
	now    func() time.Time
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	return &Indexer{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "audit-indexer", "index": index}),
		now:    time.Now,
	}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists(
		[]string{i.index},
		i.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("check index %s: %w", i.index, err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index %s: %s", i.index, res.Status())
	}

	res, err = i.client.Indices.Create(
		i.index,
		i.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		i.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", i.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index %s: %s", i.index, res.Status())
	}
	i.logger.Info("audit index created", nil)
	return nil
}

// Index writes one document per run, keyed by run id so re-delivery overwrites.
func (i *Indexer) Index(ctx context.Context, bp *models.Blueprint) error {
	body, err := json.Marshal(buildDocument(bp, i.now()))
	if err != nil {
		return apperrors.NewAuditIndexError(bp.RunID, err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithDocumentID(bp.RunID),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return apperrors.NewAuditIndexError(bp.RunID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewAuditIndexError(bp.RunID, fmt.Errorf("index response: %s", res.Status()))
	}

	i.logger.Debug("execution audit indexed", map[string]interface{}{
		"runId":   bp.RunID,
		"entries": len(bp.ExecutionAudit.History),
	})
	return nil
}

// CountStageStatus returns how many indexed runs recorded the given status
// for a stage, e.g. how often D13 had to repair.
func (i *Indexer) CountStageStatus(ctx context.Context, stageID string, status models.AuditStatus) (int, error) {
	body, err := json.Marshal(stageStatusQuery(stageID, status))
	if err != nil {
		return 0, err
	}

	res, err := i.client.Count(
		i.client.Count.WithIndex(i.index),
		i.client.Count.WithBody(bytes.NewReader(body)),
		i.client.Count.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("count %s/%s: %w", stageID, status, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("count %s/%s: %s", stageID, status, res.Status())
	}

	var result struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return result.Count, nil
}

func (i *Indexer) Name() string { return "audit-index" }

func (i *Indexer) Accept(ctx context.Context, bp *models.Blueprint) error {
	return i.Index(ctx, bp)
}
