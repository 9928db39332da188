package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestCreateAndJoinLeague(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.leagueSvc.CreateLeague(ctx, "user-1", "Office League")
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if len(created.InviteCode) != 8 {
		t.Fatalf("expected 8-char invite code, got %q", created.InviteCode)
	}

	// Creator is already enrolled.
	mine, err := f.leagueSvc.ListMyLeagues(ctx, "user-1")
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected creator enrolled, got %v err=%v", mine, err)
	}

	joined, err := f.leagueSvc.JoinLeague(ctx, "user-2", created.InviteCode)
	if err != nil {
		t.Fatalf("join league: %v", err)
	}
	if joined.ID != created.ID {
		t.Fatalf("expected league %s, got %s", created.ID, joined.ID)
	}

	if _, err := f.leagueSvc.JoinLeague(ctx, "user-2", created.InviteCode); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on double join, got %v", err)
	}
	if _, err := f.leagueSvc.JoinLeague(ctx, "user-3", "ZZZZZZZZ"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bad code, got %v", err)
	}
	if _, err := f.leagueSvc.JoinLeague(ctx, "user-3", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for malformed code, got %v", err)
	}
}

func TestStandings_RanksByTotalPointsWithTies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, userID := range []string{"user-1", "user-2", "user-3"} {
		f.saveSquad(t, userID)
	}

	created, err := f.leagueSvc.CreateLeague(ctx, "user-1", "Office League")
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	for _, userID := range []string{"user-2", "user-3"} {
		if _, err := f.leagueSvc.JoinLeague(ctx, userID, created.InviteCode); err != nil {
			t.Fatalf("join league: %v", err)
		}
	}

	setTotal := func(userID string, total int) {
		squad, _, err := f.squads.GetByUser(ctx, userID)
		if err != nil {
			t.Fatalf("get squad: %v", err)
		}
		if err := f.squads.UpdatePoints(ctx, squad.ID, 0, total); err != nil {
			t.Fatalf("update points: %v", err)
		}
	}
	setTotal("user-1", 50)
	setTotal("user-2", 80)
	setTotal("user-3", 80)

	standings, err := f.leagueSvc.Standings(ctx, created.ID, "user-1")
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(standings) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(standings))
	}

	if standings[0].Rank != 1 || standings[1].Rank != 1 {
		t.Fatalf("expected shared first place, got %+v", standings[:2])
	}
	if standings[2].Rank != 3 || standings[2].UserID != "user-1" {
		t.Fatalf("expected user-1 third after the tie, got %+v", standings[2])
	}
}

func TestStandings_RequiresMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.leagueSvc.CreateLeague(ctx, "user-1", "Office League")
	if err != nil {
		t.Fatalf("create league: %v", err)
	}

	if _, err := f.leagueSvc.Standings(ctx, created.ID, "outsider"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
