package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tryline/fantasy-rugby/internal/domain/league"
	"github.com/tryline/fantasy-rugby/internal/domain/player"
	basecache "github.com/tryline/fantasy-rugby/internal/platform/cache"
)

type countingPlayerRepo struct {
	listCalls    int
	getByIDCalls int
	getByIDsCall int

	players []player.Player
}

func (r *countingPlayerRepo) List(ctx context.Context, filter player.ListFilter) ([]player.Player, int, error) {
	r.listCalls++
	return append([]player.Player(nil), r.players...), len(r.players), nil
}

func (r *countingPlayerRepo) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	r.getByIDCalls++
	for _, p := range r.players {
		if p.ID == playerID {
			return p, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *countingPlayerRepo) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	r.getByIDsCall++
	var out []player.Player
	for _, id := range playerIDs {
		for _, p := range r.players {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *countingPlayerRepo) UpdatePrice(ctx context.Context, playerID string, price int64) error {
	for i := range r.players {
		if r.players[i].ID == playerID {
			r.players[i].Price = price
		}
	}
	return nil
}

func (r *countingPlayerRepo) UpdateTotalPoints(ctx context.Context, playerID string, totalPoints int) error {
	for i := range r.players {
		if r.players[i].ID == playerID {
			r.players[i].TotalPoints = totalPoints
		}
	}
	return nil
}

func newCountingPlayerRepo() *countingPlayerRepo {
	return &countingPlayerRepo{players: []player.Player{
		{ID: "p-1", Name: "Jack Welsby", Club: "St Helens", Position: player.PositionFullBack, Price: 9500, TotalPoints: 42},
		{ID: "p-2", Name: "Bevan French", Club: "Wigan Warriors", Position: player.PositionScrumHalf, Price: 10000, TotalPoints: 51},
	}}
}

func TestPlayerRepositoryListCachesSecondRead(t *testing.T) {
	next := newCountingPlayerRepo()
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()
	filter := player.ListFilter{Page: 1, PageSize: 25}

	first, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, first, 2)

	second, total, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, first, second)
	require.Equal(t, 1, next.listCalls)
}

func TestPlayerRepositoryListKeysDifferByFilter(t *testing.T) {
	next := newCountingPlayerRepo()
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	_, _, err := repo.List(ctx, player.ListFilter{Page: 1, PageSize: 25})
	require.NoError(t, err)
	_, _, err = repo.List(ctx, player.ListFilter{Club: "St Helens", Page: 1, PageSize: 25})
	require.NoError(t, err)

	require.Equal(t, 2, next.listCalls)
}

func TestPlayerRepositoryGetByIDCachesMisses(t *testing.T) {
	next := newCountingPlayerRepo()
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	_, exists, err := repo.GetByID(ctx, "p-missing")
	require.NoError(t, err)
	require.False(t, exists)

	_, exists, err = repo.GetByID(ctx, "p-missing")
	require.NoError(t, err)
	require.False(t, exists)
	require.Equal(t, 1, next.getByIDCalls)
}

func TestPlayerRepositoryUpdatePriceInvalidatesReads(t *testing.T) {
	next := newCountingPlayerRepo()
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	got, exists, err := repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, int64(9500), got.Price)

	require.NoError(t, repo.UpdatePrice(ctx, "p-1", 9700))

	got, exists, err = repo.GetByID(ctx, "p-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, int64(9700), got.Price)
	require.Equal(t, 2, next.getByIDCalls)
}

func TestPlayerRepositoryUpdateTotalPointsInvalidatesList(t *testing.T) {
	next := newCountingPlayerRepo()
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()
	filter := player.ListFilter{Page: 1, PageSize: 25}

	_, _, err := repo.List(ctx, filter)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateTotalPoints(ctx, "p-2", 60))

	items, _, err := repo.List(ctx, filter)
	require.NoError(t, err)
	require.Equal(t, 2, next.listCalls)
	for _, p := range items {
		if p.ID == "p-2" {
			require.Equal(t, 60, p.TotalPoints)
		}
	}
}

func TestPlayerRepositoryGetByIDsKeyIgnoresOrder(t *testing.T) {
	next := newCountingPlayerRepo()
	repo := NewPlayerRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	first, err := repo.GetByIDs(ctx, []string{"p-2", "p-1"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	_, err = repo.GetByIDs(ctx, []string{"p-1", "p-2"})
	require.NoError(t, err)
	require.Equal(t, 1, next.getByIDsCall)
}

type countingLeagueRepo struct {
	getByInviteCalls int
	listByUserCalls  int
	listMembersCalls int
	isMemberCalls    int

	leagues map[string]league.League
	members map[string][]league.Membership
}

func newCountingLeagueRepo() *countingLeagueRepo {
	return &countingLeagueRepo{
		leagues: map[string]league.League{},
		members: map[string][]league.Membership{},
	}
}

func (r *countingLeagueRepo) Create(ctx context.Context, l league.League) error {
	r.leagues[l.ID] = l
	return nil
}

func (r *countingLeagueRepo) GetByID(ctx context.Context, id string) (league.League, bool, error) {
	l, ok := r.leagues[id]
	return l, ok, nil
}

func (r *countingLeagueRepo) GetByInviteCode(ctx context.Context, code string) (league.League, bool, error) {
	r.getByInviteCalls++
	for _, l := range r.leagues {
		if l.InviteCode == code {
			return l, true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *countingLeagueRepo) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	r.listByUserCalls++
	var out []league.League
	for _, ms := range r.members {
		for _, m := range ms {
			if m.UserID == userID {
				out = append(out, r.leagues[m.LeagueID])
			}
		}
	}
	return out, nil
}

func (r *countingLeagueRepo) AddMember(ctx context.Context, m league.Membership) error {
	r.members[m.LeagueID] = append(r.members[m.LeagueID], m)
	return nil
}

func (r *countingLeagueRepo) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	r.isMemberCalls++
	for _, m := range r.members[leagueID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *countingLeagueRepo) ListMembers(ctx context.Context, leagueID string) ([]league.Membership, error) {
	r.listMembersCalls++
	return append([]league.Membership(nil), r.members[leagueID]...), nil
}

func TestLeagueRepositoryInviteLookupNormalizesKey(t *testing.T) {
	next := newCountingLeagueRepo()
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, league.League{
		ID:         "lg-1",
		Name:       "Office League",
		InviteCode: "AB12CD34",
		CreatorID:  "user-1",
	}))

	got, exists, err := repo.GetByInviteCode(ctx, "AB12CD34")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, "lg-1", got.ID)

	// Same code with different surrounding whitespace hits the cached entry.
	_, exists, err = repo.GetByInviteCode(ctx, "  AB12CD34 ")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, 1, next.getByInviteCalls)
}

func TestLeagueRepositoryAddMemberInvalidatesMembershipKeys(t *testing.T) {
	next := newCountingLeagueRepo()
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, league.League{
		ID:         "lg-1",
		Name:       "Office League",
		InviteCode: "AB12CD34",
		CreatorID:  "user-1",
	}))

	isMember, err := repo.IsMember(ctx, "lg-1", "user-2")
	require.NoError(t, err)
	require.False(t, isMember)

	leagues, err := repo.ListByUser(ctx, "user-2")
	require.NoError(t, err)
	require.Empty(t, leagues)

	members, err := repo.ListMembers(ctx, "lg-1")
	require.NoError(t, err)
	require.Empty(t, members)

	require.NoError(t, repo.AddMember(ctx, league.Membership{LeagueID: "lg-1", UserID: "user-2"}))

	isMember, err = repo.IsMember(ctx, "lg-1", "user-2")
	require.NoError(t, err)
	require.True(t, isMember)

	leagues, err = repo.ListByUser(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, leagues, 1)

	members, err = repo.ListMembers(ctx, "lg-1")
	require.NoError(t, err)
	require.Len(t, members, 1)

	require.Equal(t, 2, next.isMemberCalls)
	require.Equal(t, 2, next.listByUserCalls)
	require.Equal(t, 2, next.listMembersCalls)
}

func TestLeagueRepositoryIsMemberCachesSecondRead(t *testing.T) {
	next := newCountingLeagueRepo()
	repo := NewLeagueRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	require.NoError(t, next.AddMember(ctx, league.Membership{LeagueID: "lg-1", UserID: "user-2"}))

	for i := 0; i < 3; i++ {
		isMember, err := repo.IsMember(ctx, "lg-1", "user-2")
		require.NoError(t, err)
		require.True(t, isMember)
	}
	require.Equal(t, 1, next.isMemberCalls)
}
