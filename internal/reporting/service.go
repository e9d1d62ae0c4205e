package reporting

import (
	"context"
	"errors"

	"vox-console/internal/apiclient"
	"vox-console/internal/calls"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

const (
	summaryPageSize = 100
	pageFanOut      = 4
)

type Service struct {
	source calls.Lister
}

func NewService(source calls.Lister) *Service { return &Service{source: source} }

// CallsSummary aggregates every call log of a tenant, optionally narrowed to one assistant
// and a time range. Averages only count calls where the value is present.
func (s *Service) CallsSummary(ctx context.Context, req CallsSummaryRequest) (CallsSummary, error) {
	if req.ClientID == "" {
		return CallsSummary{}, ErrInvalidRequest
	}
	if !req.Range.IsZero() && (req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From)) {
		return CallsSummary{}, ErrInvalidRequest
	}
	if s.source == nil {
		return CallsSummary{}, errors.New("reporting: call log source not configured")
	}

	rows, err := s.fetchAll(ctx, req)
	if err != nil {
		return CallsSummary{}, err
	}

	out := CallsSummary{ClientID: req.ClientID, AssistantID: req.AssistantID}
	var durations, latencies, latencyTotal int
	for _, c := range rows {
		if !req.Range.contains(c.CreatedAt) {
			continue
		}
		out.TotalCalls++
		switch c.Status {
		case calls.StatusCompleted:
			out.CompletedCalls++
		case calls.StatusFailed:
			out.FailedCalls++
		default:
			out.OtherCalls++
		}
		if c.DurationSeconds != nil {
			durations++
			out.TotalDurationSeconds += *c.DurationSeconds
		}
		if c.LatencyMS != nil {
			latencies++
			latencyTotal += *c.LatencyMS
		}
		if c.Transcript != nil && *c.Transcript != "" {
			out.TranscribedCalls++
		}
	}
	if out.TotalCalls > 0 {
		out.SuccessRate = float64(out.CompletedCalls) / float64(out.TotalCalls)
	}
	if durations > 0 {
		out.AverageDurationSeconds = float64(out.TotalDurationSeconds) / float64(durations)
	}
	if latencies > 0 {
		out.AverageLatencyMS = float64(latencyTotal) / float64(latencies)
	}
	return out, nil
}

// fetchAll reads page 1, then the remaining pages concurrently, preserving order.
func (s *Service) fetchAll(ctx context.Context, req CallsSummaryRequest) ([]calls.CallLog, error) {
	params := calls.ListParams{
		ClientID:    req.ClientID,
		AssistantID: req.AssistantID,
		Page:        1,
		PageSize:    summaryPageSize,
	}
	first, err := s.source.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pageSize := first.PageSize
	if pageSize <= 0 {
		pageSize = summaryPageSize
	}
	totalPages := apiclient.TotalPages(first.Total, pageSize)
	if totalPages <= 1 {
		return first.Items, nil
	}

	pages := make([][]calls.CallLog, totalPages)
	pages[0] = first.Items
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pageFanOut)
	for i := 2; i <= totalPages; i++ {
		p := params
		p.Page = i
		g.Go(func() error {
			resp, err := s.source.List(gctx, p)
			if err != nil {
				return err
			}
			pages[p.Page-1] = resp.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]calls.CallLog, 0, first.Total)
	for _, items := range pages {
		out = append(out, items...)
	}
	return out, nil
}
