package reporting

import (
	"context"
	"errors"
	"sync"

	"vox-console/internal/apiclient"
	"vox-console/internal/calls"
)

// MemoryCalls is an in-memory paginated call log source for tests and local development.
// It enforces tenant isolation on reads.
type MemoryCalls struct {
	mu    sync.Mutex
	Calls []calls.CallLog

	// Requests records every ListParams received.
	Requests []calls.ListParams
}

func NewMemoryCalls(rows ...calls.CallLog) *MemoryCalls {
	return &MemoryCalls{Calls: rows}
}

func (r *MemoryCalls) List(ctx context.Context, p calls.ListParams) (apiclient.Page[calls.CallLog], error) {
	if p.ClientID == "" {
		return apiclient.Page[calls.CallLog]{}, errors.New("client_id required")
	}
	if err := ctx.Err(); err != nil {
		return apiclient.Page[calls.CallLog]{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Requests = append(r.Requests, p)

	matched := make([]calls.CallLog, 0)
	for _, c := range r.Calls {
		if c.ClientID != p.ClientID {
			continue
		}
		if p.AssistantID != "" && (c.AssistantID == nil || *c.AssistantID != p.AssistantID) {
			continue
		}
		matched = append(matched, c)
	}

	page, size := p.Page, p.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	start := min((page-1)*size, len(matched))
	end := min(start+size, len(matched))
	return apiclient.Page[calls.CallLog]{
		Items:    append([]calls.CallLog{}, matched[start:end]...),
		Total:    len(matched),
		Page:     page,
		PageSize: size,
	}, nil
}
