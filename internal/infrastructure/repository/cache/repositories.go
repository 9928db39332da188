package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/tryline/fantasy-rugby/internal/domain/league"
	"github.com/tryline/fantasy-rugby/internal/domain/player"
	basecache "github.com/tryline/fantasy-rugby/internal/platform/cache"
)

// PlayerRepository caches the player list and point lookups. Price and point
// updates drop every player key so readers never see a stale listing.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context, filter player.ListFilter) ([]player.Player, int, error) {
	key := playerListKey(filter)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, total, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return cachedPlayerList{
			items: append([]player.Player(nil), items...),
			total: total,
		}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	cached, _ := v.(cachedPlayerList)
	return append([]player.Player(nil), cached.items...), cached.total, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	key := "player:id:" + playerID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayerByID)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	ids := append([]string(nil), playerIDs...)
	sort.Strings(ids)
	key := "player:ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.GetByIDs(ctx, playerIDs)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) UpdatePrice(ctx context.Context, playerID string, price int64) error {
	if err := r.next.UpdatePrice(ctx, playerID, price); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

func (r *PlayerRepository) UpdateTotalPoints(ctx context.Context, playerID string, totalPoints int) error {
	if err := r.next.UpdateTotalPoints(ctx, playerID, totalPoints); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

type cachedPlayerList struct {
	items []player.Player
	total int
}

func playerListKey(filter player.ListFilter) string {
	return "player:list:" + filter.Club + ":" + string(filter.Position) +
		":" + strconv.Itoa(filter.Page) + ":" + strconv.Itoa(filter.PageSize)
}

// LeagueRepository caches league and membership lookups. Writes drop the keys
// they touch.
type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	if err := r.next.Create(ctx, l); err != nil {
		return err
	}
	r.cache.Delete(ctx, leagueByIDKey(l.ID))
	r.cache.Delete(ctx, leagueByInviteKey(l.InviteCode))
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, id string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueByIDKey(id), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, code string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueByInviteKey(code), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByInviteCode(ctx, code)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueListByUserKey(userID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) AddMember(ctx context.Context, m league.Membership) error {
	if err := r.next.AddMember(ctx, m); err != nil {
		return err
	}
	r.cache.Delete(ctx, leagueListByUserKey(m.UserID))
	r.cache.Delete(ctx, leagueMembersKey(m.LeagueID))
	r.cache.Delete(ctx, leagueIsMemberKey(m.LeagueID, m.UserID))
	return nil
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueIsMemberKey(leagueID, userID), func(ctx context.Context) (any, error) {
		isMember, err := r.next.IsMember(ctx, leagueID, userID)
		if err != nil {
			return nil, err
		}
		return isMember, nil
	})
	if err != nil {
		return false, err
	}

	isMember, _ := v.(bool)
	return isMember, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Membership, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueMembersKey(leagueID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListMembers(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]league.Membership(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.Membership)
	return append([]league.Membership(nil), items...), nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

func leagueByIDKey(id string) string {
	return "league:id:" + id
}

func leagueByInviteKey(code string) string {
	return "league:invite:" + strings.ToUpper(strings.TrimSpace(code))
}

func leagueListByUserKey(userID string) string {
	return "league:list:user:" + userID
}

func leagueMembersKey(leagueID string) string {
	return "league:members:" + leagueID
}

func leagueIsMemberKey(leagueID, userID string) string {
	return "league:member:" + leagueID + ":user:" + userID
}
