package assistants

import (
	"context"
	"sync"

	"vox-console/internal/apiclient"
)

const fetchFallback = "Failed to fetch assistants"

// Backend is the subset of API the store drives.
type Backend interface {
	List(ctx context.Context, clientID string) ([]Assistant, error)
	Create(ctx context.Context, in Create) (Assistant, error)
	Update(ctx context.Context, id string, in Update) (Assistant, error)
	Delete(ctx context.Context, id string) error
}

type OpKind int

const (
	OpCreate OpKind = iota + 1
	OpUpdate
	OpDelete
)

// Op is a server-confirmed mutation applied locally on top of the last fetched snapshot.
type Op struct {
	Kind      OpKind
	ID        string
	Assistant Assistant
}

// Merge replays ops over snapshot: create appends, update replaces by id, delete filters by id.
// Later ops win. snapshot is not modified.
func Merge(snapshot []Assistant, ops []Op) []Assistant {
	out := make([]Assistant, len(snapshot))
	copy(out, snapshot)
	for _, op := range ops {
		switch op.Kind {
		case OpCreate:
			out = append(out, op.Assistant)
		case OpUpdate:
			for i := range out {
				if out[i].ID == op.ID {
					out[i] = op.Assistant
				}
			}
		case OpDelete:
			kept := out[:0]
			for _, a := range out {
				if a.ID != op.ID {
					kept = append(kept, a)
				}
			}
			out = kept
		}
	}
	return out
}

type State struct {
	Assistants []Assistant `json:"assistants"`
	IsLoading  bool        `json:"is_loading"`
	Error      string      `json:"error,omitempty"`
}

// Store holds one tenant's assistant list.
//
// Reads never return errors; a failed fetch is reported through State().Error.
// Mutations return errors and, on success, are applied as ops without refetching,
// so edits made elsewhere only show up after Refetch. Conflicting edits are last-write-wins.
type Store struct {
	api   Backend
	scope *apiclient.Scope

	mu       sync.Mutex
	clientID string
	snapshot []Assistant
	ops      []Op
	loading  bool
	err      string
	gen      uint64
}

func NewStore(api Backend, clientID string) *Store {
	return &Store{
		api:      api,
		scope:    apiclient.NewScope(),
		clientID: clientID,
		loading:  true,
	}
}

// Load performs the initial fetch.
func (s *Store) Load(ctx context.Context) { s.fetch(ctx) }

func (s *Store) Refetch(ctx context.Context) { s.fetch(ctx) }

// SetClientID switches tenant and refetches when the id changed.
func (s *Store) SetClientID(ctx context.Context, clientID string) {
	s.mu.Lock()
	changed := s.clientID != clientID
	s.clientID = clientID
	s.mu.Unlock()
	if changed {
		s.fetch(ctx)
	}
}

func (s *Store) ClientID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientID
}

// Close cancels in-flight calls. Results arriving afterwards are dropped.
func (s *Store) Close() { s.scope.Close() }

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Assistants: Merge(s.snapshot, s.ops),
		IsLoading:  s.loading,
		Error:      s.err,
	}
}

// Find returns the assistant with id from the merged view.
func (s *Store) Find(id string) (Assistant, bool) {
	for _, a := range s.State().Assistants {
		if a.ID == id {
			return a, true
		}
	}
	return Assistant{}, false
}

func (s *Store) Create(ctx context.Context, in Create) (Assistant, error) {
	ctx, done := s.scope.Bind(ctx)
	defer done()
	a, err := s.api.Create(ctx, in)
	if err != nil {
		return Assistant{}, err
	}
	s.apply(Op{Kind: OpCreate, ID: a.ID, Assistant: a})
	return a, nil
}

func (s *Store) Update(ctx context.Context, id string, in Update) (Assistant, error) {
	ctx, done := s.scope.Bind(ctx)
	defer done()
	a, err := s.api.Update(ctx, id, in)
	if err != nil {
		return Assistant{}, err
	}
	s.apply(Op{Kind: OpUpdate, ID: id, Assistant: a})
	return a, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, done := s.scope.Bind(ctx)
	defer done()
	if err := s.api.Delete(ctx, id); err != nil {
		return err
	}
	s.apply(Op{Kind: OpDelete, ID: id})
	return nil
}

func (s *Store) apply(op Op) {
	if s.scope.Closed() {
		return
	}
	s.mu.Lock()
	s.ops = append(s.ops, op)
	s.mu.Unlock()
}

// fetch replaces the snapshot. Only the most recently issued fetch may write state.
func (s *Store) fetch(ctx context.Context) {
	if s.scope.Closed() {
		return
	}
	s.mu.Lock()
	s.gen++
	gen := s.gen
	clientID := s.clientID
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	ctx, done := s.scope.Bind(ctx)
	defer done()
	items, err := s.api.List(ctx, clientID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.scope.Closed() {
		return
	}
	s.loading = false
	if err != nil {
		s.err = apiclient.ErrorDetail(err, fetchFallback)
		return
	}
	s.snapshot = items
	s.ops = nil
}
