package ranking

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/de-tools/account-ranking/pkg/models/store"
	"github.com/rs/zerolog"
)

var ErrNotLoaded = errors.New("no sales records loaded")

// Snapshot is a built report together with the state it was built with.
type Snapshot struct {
	Report     domain.Report
	Sort       domain.SortState
	FilterUser string
}

// Session keeps the loaded batch, the user filter and the sort state
// between builds. Builds run one at a time and never observe a partially
// updated state.
type Session struct {
	assembler *Assembler

	mu         sync.Mutex
	records    []store.SalesRecord
	loaded     bool
	filterUser string
	sort       domain.SortState
}

func NewSession(assembler *Assembler) *Session {
	return &Session{
		assembler: assembler,
		sort:      domain.InitialSortState(),
	}
}

// Load replaces the record batch. Filter and sort state are kept.
func (s *Session) Load(records []store.SalesRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = slices.Clone(records)
	s.loaded = true
}

func (s *Session) ToggleSort(key domain.SortKey, year int) domain.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sort = s.sort.Toggle(key, year)
	return s.sort
}

func (s *Session) SetFilter(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filterUser = user
}

func (s *Session) Sort() domain.SortState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

func (s *Session) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterUser
}

// Users returns the distinct users of the loaded batch, sorted.
func (s *Session) Users() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	users := make([]string, 0)
	for _, rec := range s.records {
		if _, ok := seen[rec.User]; ok {
			continue
		}
		seen[rec.User] = struct{}{}
		users = append(users, rec.User)
	}
	slices.Sort(users)
	return users
}

// Build assembles the report from the current batch and state.
func (s *Session) Build(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return Snapshot{}, ErrNotLoaded
	}

	zerolog.Ctx(ctx).Debug().
		Str("user", s.filterUser).
		Str("sort_key", string(s.sort.Key)).
		Str("direction", string(s.sort.Direction)).
		Int("year", s.sort.Year).
		Msg("building report")

	report := s.assembler.Build(ctx, s.records, s.filterUser, s.sort)
	return Snapshot{
		Report:     report,
		Sort:       s.sort,
		FilterUser: s.filterUser,
	}, nil
}
