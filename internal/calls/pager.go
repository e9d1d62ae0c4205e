package calls

import (
	"context"
	"sync"

	"vox-console/internal/apiclient"
)

const (
	defaultPageSize = 20
	fetchFallback   = "Failed to fetch call logs"
)

// Lister is satisfied by *API.
type Lister interface {
	List(ctx context.Context, p ListParams) (apiclient.Page[CallLog], error)
}

type PagerParams struct {
	ClientID    string
	AssistantID string
	InitialPage int
	PageSize    int
}

type PagerState struct {
	Calls      []CallLog `json:"calls"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	IsLoading  bool      `json:"is_loading"`
	Error      string    `json:"error,omitempty"`
}

// Pager walks call logs one page at a time. Every transition is a fresh fetch.
// Errors never escape; they are reported through State().Error.
type Pager struct {
	api   Lister
	scope *apiclient.Scope

	mu          sync.Mutex
	clientID    string
	assistantID string
	pageSize    int
	state       PagerState
	gen         uint64
}

func NewPager(api Lister, p PagerParams) *Pager {
	if p.InitialPage < 1 {
		p.InitialPage = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	return &Pager{
		api:         api,
		scope:       apiclient.NewScope(),
		clientID:    p.ClientID,
		assistantID: p.AssistantID,
		pageSize:    p.PageSize,
		state: PagerState{
			Calls:     []CallLog{},
			Page:      p.InitialPage,
			PageSize:  p.PageSize,
			IsLoading: true,
		},
	}
}

// Load fetches the initial page.
func (p *Pager) Load(ctx context.Context) { p.fetch(ctx, p.currentPage()) }

func (p *Pager) Refetch(ctx context.Context) { p.fetch(ctx, p.currentPage()) }

// GoToPage fetches page. Pages below 1 are ignored.
func (p *Pager) GoToPage(ctx context.Context, page int) {
	if page < 1 {
		return
	}
	p.fetch(ctx, page)
}

// NextPage is a no-op on the last page.
func (p *Pager) NextPage(ctx context.Context) {
	p.mu.Lock()
	page, total := p.state.Page, p.state.TotalPages
	p.mu.Unlock()
	if page < total {
		p.fetch(ctx, page+1)
	}
}

// PrevPage is a no-op on the first page.
func (p *Pager) PrevPage(ctx context.Context) {
	page := p.currentPage()
	if page > 1 {
		p.fetch(ctx, page-1)
	}
}

// SetAssistantID changes the assistant filter and refetches the current page.
func (p *Pager) SetAssistantID(ctx context.Context, id string) {
	p.mu.Lock()
	changed := p.assistantID != id
	p.assistantID = id
	p.mu.Unlock()
	if changed {
		p.Refetch(ctx)
	}
}

func (p *Pager) State() PagerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.state
	out.Calls = append([]CallLog{}, p.state.Calls...)
	return out
}

// Close cancels in-flight fetches. Later results are dropped.
func (p *Pager) Close() { p.scope.Close() }

func (p *Pager) currentPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Page
}

func (p *Pager) fetch(ctx context.Context, page int) {
	if p.scope.Closed() {
		return
	}
	p.mu.Lock()
	p.gen++
	gen := p.gen
	params := ListParams{
		ClientID:    p.clientID,
		AssistantID: p.assistantID,
		Page:        page,
		PageSize:    p.pageSize,
	}
	p.state.IsLoading = true
	p.state.Error = ""
	p.mu.Unlock()

	ctx, done := p.scope.Bind(ctx)
	defer done()
	resp, err := p.api.List(ctx, params)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.scope.Closed() {
		return
	}
	p.state.IsLoading = false
	if err != nil {
		p.state.Error = apiclient.ErrorDetail(err, fetchFallback)
		return
	}
	items := resp.Items
	if items == nil {
		items = []CallLog{}
	}
	p.state = PagerState{
		Calls:      items,
		Total:      resp.Total,
		Page:       resp.Page,
		PageSize:   resp.PageSize,
		TotalPages: apiclient.TotalPages(resp.Total, resp.PageSize),
	}
}
