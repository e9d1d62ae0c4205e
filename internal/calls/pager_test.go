package calls

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"vox-console/internal/apiclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	mu    sync.Mutex
	total int
	err   error
	reqs  []ListParams
	hook  func(ctx context.Context, p ListParams)
}

func (f *fakeLister) List(ctx context.Context, p ListParams) (apiclient.Page[CallLog], error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, p)
	hook, err, total := f.hook, f.err, f.total
	f.mu.Unlock()
	if hook != nil {
		hook(ctx, p)
	}
	if err != nil {
		return apiclient.Page[CallLog]{}, err
	}
	items := []CallLog{}
	for i := (p.Page - 1) * p.PageSize; i < total && i < p.Page*p.PageSize; i++ {
		items = append(items, CallLog{ID: fmt.Sprintf("c%d", i), ClientID: p.ClientID})
	}
	return apiclient.Page[CallLog]{Items: items, Total: total, Page: p.Page, PageSize: p.PageSize}, nil
}

func (f *fakeLister) requests() []ListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ListParams{}, f.reqs...)
}

func TestPager_InitialState(t *testing.T) {
	p := NewPager(&fakeLister{}, PagerParams{ClientID: "t"})
	st := p.State()
	assert.True(t, st.IsLoading)
	assert.Equal(t, 1, st.Page)
	assert.Equal(t, 20, st.PageSize)
	assert.Empty(t, st.Calls)
	assert.NotNil(t, st.Calls)
}

func TestPager_LoadComputesTotalPages(t *testing.T) {
	f := &fakeLister{total: 41}
	p := NewPager(f, PagerParams{ClientID: "t"})
	p.Load(context.Background())

	st := p.State()
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	assert.Equal(t, 3, st.TotalPages)
	assert.Equal(t, 41, st.Total)
	assert.Len(t, st.Calls, 20)
	assert.Equal(t, []ListParams{{ClientID: "t", Page: 1, PageSize: 20}}, f.requests())
}

func TestPager_Navigation(t *testing.T) {
	f := &fakeLister{total: 41}
	p := NewPager(f, PagerParams{ClientID: "t", AssistantID: "a1"})
	ctx := context.Background()
	p.Load(ctx)

	p.PrevPage(ctx)
	assert.Len(t, f.requests(), 1, "prev on first page must not fetch")

	p.NextPage(ctx)
	p.NextPage(ctx)
	assert.Equal(t, 3, p.State().Page)
	assert.Len(t, p.State().Calls, 1)

	p.NextPage(ctx)
	assert.Len(t, f.requests(), 3, "next on last page must not fetch")

	p.GoToPage(ctx, 0)
	assert.Len(t, f.requests(), 3, "page below 1 must not fetch")

	p.PrevPage(ctx)
	assert.Equal(t, 2, p.State().Page)

	p.GoToPage(ctx, 1)
	assert.Equal(t, 1, p.State().Page)
	for _, r := range f.requests() {
		assert.Equal(t, "a1", r.AssistantID)
	}
}

func TestPager_EmptyResultHasNoNext(t *testing.T) {
	f := &fakeLister{total: 0}
	p := NewPager(f, PagerParams{ClientID: "t"})
	p.Load(context.Background())
	assert.Equal(t, 0, p.State().TotalPages)

	p.NextPage(context.Background())
	assert.Len(t, f.requests(), 1)
}

func TestPager_ErrorKeepsPreviousPage(t *testing.T) {
	f := &fakeLister{total: 41}
	p := NewPager(f, PagerParams{ClientID: "t"})
	ctx := context.Background()
	p.Load(ctx)

	f.mu.Lock()
	f.err = &apiclient.Error{Status: 500, Detail: "db down"}
	f.mu.Unlock()
	p.NextPage(ctx)

	st := p.State()
	assert.Equal(t, "db down", st.Error)
	assert.False(t, st.IsLoading)
	assert.Equal(t, 1, st.Page)
	assert.Len(t, st.Calls, 20)

	f.mu.Lock()
	f.err = errors.New("dial tcp: refused")
	f.mu.Unlock()
	p.Refetch(ctx)
	assert.Equal(t, "Failed to fetch call logs", p.State().Error)
}

func TestPager_SetAssistantIDRefetchesOnChange(t *testing.T) {
	f := &fakeLister{total: 5}
	p := NewPager(f, PagerParams{ClientID: "t"})
	ctx := context.Background()
	p.Load(ctx)

	p.SetAssistantID(ctx, "")
	require.Len(t, f.requests(), 1)

	p.SetAssistantID(ctx, "a2")
	reqs := f.requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "a2", reqs[1].AssistantID)
}

func TestPager_SupersededFetchIsDropped(t *testing.T) {
	f := &fakeLister{total: 41}
	p := NewPager(f, PagerParams{ClientID: "t"})
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	f.hook = func(_ context.Context, lp ListParams) {
		if lp.Page == 1 {
			close(started)
			<-release
		}
	}

	done := make(chan struct{})
	go func() {
		p.Load(ctx)
		close(done)
	}()
	<-started

	f.mu.Lock()
	f.hook = nil
	f.mu.Unlock()
	p.GoToPage(ctx, 3)
	close(release)
	<-done

	assert.Equal(t, 3, p.State().Page)
}

func TestPager_CloseCancelsAndDrops(t *testing.T) {
	f := &fakeLister{total: 41}
	p := NewPager(f, PagerParams{ClientID: "t"})

	f.hook = func(ctx context.Context, _ ListParams) {
		p.Close()
		<-ctx.Done()
	}
	p.Load(context.Background())

	st := p.State()
	assert.True(t, st.IsLoading, "results after close must be dropped")
	assert.Empty(t, st.Calls)

	p.Refetch(context.Background())
	assert.Len(t, f.requests(), 1)
}
