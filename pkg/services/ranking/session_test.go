package ranking

import (
	"context"
	"sync"
	"testing"

	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_BuildBeforeLoad(t *testing.T) {
	s := NewSession(NewAssembler(DefaultSettings()))

	_, err := s.Build(context.Background())
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestSession_ToggleSort(t *testing.T) {
	s := NewSession(NewAssembler(DefaultSettings()))
	assert.False(t, s.Sort().IsActive())

	state := s.ToggleSort(domain.SortKeyTotalMargin, 0)
	assert.Equal(t, domain.SortState{Key: domain.SortKeyTotalMargin, Direction: domain.Descending}, state)

	state = s.ToggleSort(domain.SortKeyTotalMargin, 0)
	assert.Equal(t, domain.SortState{Key: domain.SortKeyTotalMargin, Direction: domain.Ascending}, state)
	assert.Equal(t, state, s.Sort())
}

func TestSession_BuildUsesState(t *testing.T) {
	s := NewSession(NewAssembler(DefaultSettings()))
	s.Load(fixtureRecords())
	s.SetFilter("B")
	s.ToggleSort(domain.SortKeyName, 0)

	snap, err := s.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B", snap.FilterUser)
	assert.Equal(t, domain.SortKeyName, snap.Sort.Key)
	assert.Equal(t, 2, snap.Report.AccountCount())

	s.SetFilter("nobody")
	snap, err = s.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Report.Empty)
}

func TestSession_LoadKeepsState(t *testing.T) {
	s := NewSession(NewAssembler(DefaultSettings()))
	s.Load(fixtureRecords())
	s.SetFilter("A")
	s.ToggleSort(domain.SortKeyCount, 2024)

	s.Load(fixtureRecords()[:2])
	assert.Equal(t, "A", s.Filter())
	assert.Equal(t, 2024, s.Sort().Year)
}

func TestSession_Users(t *testing.T) {
	s := NewSession(NewAssembler(DefaultSettings()))
	s.Load(fixtureRecords())

	assert.Equal(t, []string{"A", "B"}, s.Users())
}

func TestSession_ConcurrentToggleAndBuild(t *testing.T) {
	s := NewSession(NewAssembler(DefaultSettings()))
	s.Load(fixtureRecords())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.ToggleSort(domain.SortKeyTotalSales, 2024)
		}()
		go func() {
			defer wg.Done()
			snap, err := s.Build(context.Background())
			assert.NoError(t, err)
			if snap.Sort.IsActive() {
				assert.Equal(t, domain.SortKeyTotalSales, snap.Sort.Key)
				assert.Equal(t, 2024, snap.Sort.Year)
			}
		}()
	}
	wg.Wait()

	// Eight toggles of the same column end where the first one started.
	assert.Equal(t, domain.Ascending, s.Sort().Direction)
}
