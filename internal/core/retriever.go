package core

import (
	"context"
	"sort"

	"github.com/agenthands/veritas/internal/core/common"
	"github.com/agenthands/veritas/internal/core/model"
)

// PoolRetriever answers queries from a fixed evidence pool, for callers that
// bring their own search results. Items are ranked by how many query tokens
// they contain; items sharing none are not returned.
type PoolRetriever struct {
	Pool []model.EvidenceItem
}

func (p PoolRetriever) Retrieve(ctx context.Context, query model.QueryItem) ([]model.EvidenceItem, error) {
	queryTokens := common.TokenSet(query.Query)
	type scored struct {
		ev     model.EvidenceItem
		shared int
	}
	var hits []scored
	for _, ev := range p.Pool {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if shared, _ := common.Overlap(queryTokens, common.TokenSet(ev.Text())); shared > 0 {
			hits = append(hits, scored{ev: ev, shared: shared})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].shared > hits[j].shared })

	out := make([]model.EvidenceItem, len(hits))
	for i, h := range hits {
		out[i] = h.ev
	}
	return out, nil
}
