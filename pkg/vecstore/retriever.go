package vecstore

import (
	"context"
	"fmt"

	"github.com/gridironlabs/pregame/pkg/evidence"
	"github.com/gridironlabs/pregame/pkg/logger"
)

const (
	retrieveTopK     = 4
	retrieveMinScore = 0.15
)

// Retriever decorates an evidence provider: head-to-head bundles get the
// most relevant scouting notes from the index appended to their facts.
type Retriever struct {
	inner    evidence.Provider
	store    *NoteStore
	embedder Embedder
}

// NewRetriever wraps inner with note retrieval.
func NewRetriever(inner evidence.Provider, store *NoteStore, embedder Embedder) *Retriever {
	if embedder == nil {
		embedder = NewHashEmbedder()
	}
	return &Retriever{inner: inner, store: store, embedder: embedder}
}

// Fetch implements evidence.Provider.
func (r *Retriever) Fetch(ctx context.Context, source evidence.Source, m evidence.Matchup) (*evidence.Bundle, error) {
	bundle, err := r.inner.Fetch(ctx, source, m)
	if err != nil || source != evidence.SourceHeadToHead || r.store == nil {
		return bundle, err
	}

	query := r.embedder.Embed(fmt.Sprintf("%s %s matchup history", m.TeamA, m.TeamB))
	if query == nil {
		return bundle, nil
	}

	hits := r.store.Search(query, retrieveTopK, retrieveMinScore)
	for _, hit := range hits {
		bundle.Facts.Notes = append(bundle.Facts.Notes, hit.Text)
	}
	if len(hits) > 0 {
		logger.DebugCF("vecstore", "notes attached", map[string]any{
			"matchup": m.String(), "hits": len(hits),
		})
	}
	return bundle, nil
}
