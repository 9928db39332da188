package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMakeTransfer_SwapsPlayerAndSettlesMoney(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1")
	f.startSeason(t)

	// Incoming winger now costs 180; the outgoing one was bought at 100 but
	// relisted at 130. Sale settles at the recorded 100.
	if err := f.players.UpdatePrice(ctx, "x-winger", 180); err != nil {
		t.Fatalf("update price: %v", err)
	}
	if err := f.players.UpdatePrice(ctx, "s2", 130); err != nil {
		t.Fatalf("update price: %v", err)
	}

	record, err := f.transferSvc.MakeTransfer(ctx, MakeTransferInput{
		UserID:      "user-1",
		PlayerOutID: "s2",
		PlayerInID:  "x-winger",
	})
	if err != nil {
		t.Fatalf("make transfer: %v", err)
	}

	if record.SoldFor != 100 {
		t.Fatalf("expected sale at purchase price 100, got %d", record.SoldFor)
	}
	if record.BoughtFor != 180 {
		t.Fatalf("expected purchase at listed price 180, got %d", record.BoughtFor)
	}

	squad, _, err := f.squads.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get squad: %v", err)
	}
	if squad.Contains("s2") || !squad.Contains("x-winger") {
		t.Fatalf("expected s2 replaced by x-winger, got starters %v", squad.Starters)
	}
	if squad.Bank != 400+100-180 {
		t.Fatalf("expected bank %d, got %d", 400+100-180, squad.Bank)
	}

	owned, exists, err := f.ownership.Get(ctx, "user-1", "x-winger")
	if err != nil || !exists {
		t.Fatalf("expected ownership for incoming player, exists=%v err=%v", exists, err)
	}
	if owned.PurchasePrice != 180 {
		t.Fatalf("expected recorded purchase 180, got %d", owned.PurchasePrice)
	}
	if _, exists, _ := f.ownership.Get(ctx, "user-1", "s2"); exists {
		t.Fatal("expected outgoing player's ownership to be removed")
	}
}

func TestMakeTransfer_OrderedPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No squad yet.
	_, err := f.transferSvc.MakeTransfer(ctx, MakeTransferInput{UserID: "user-1", PlayerOutID: "s2", PlayerInID: "x-winger"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a squad, got %v", err)
	}

	f.saveSquad(t, "user-1")
	f.startSeason(t)

	tests := []struct {
		name  string
		input MakeTransferInput
	}{
		{
			name:  "outgoing player not owned",
			input: MakeTransferInput{UserID: "user-1", PlayerOutID: "x-prop", PlayerInID: "x-winger"},
		},
		{
			name:  "incoming player already owned",
			input: MakeTransferInput{UserID: "user-1", PlayerOutID: "s2", PlayerInID: "b1"},
		},
		{
			name:  "position mismatch",
			input: MakeTransferInput{UserID: "user-1", PlayerOutID: "s2", PlayerInID: "x-prop"},
		},
		{
			name:  "same player both sides",
			input: MakeTransferInput{UserID: "user-1", PlayerOutID: "s2", PlayerInID: "s2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.transferSvc.MakeTransfer(ctx, tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestMakeTransfer_HalfBacksInterchange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1")
	f.startSeason(t)

	// Stand off out, scrum half in.
	if _, err := f.transferSvc.MakeTransfer(ctx, MakeTransferInput{
		UserID:      "user-1",
		PlayerOutID: "s6",
		PlayerInID:  "x-scrumhalf",
	}); err != nil {
		t.Fatalf("expected half back swap to pass, got %v", err)
	}
}

func TestMakeTransfer_WeeklyLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1")
	f.startSeason(t)

	swaps := []MakeTransferInput{
		{UserID: "user-1", PlayerOutID: "s2", PlayerInID: "x-winger"},
		{UserID: "user-1", PlayerOutID: "s6", PlayerInID: "x-standoff"},
	}
	for _, input := range swaps {
		if _, err := f.transferSvc.MakeTransfer(ctx, input); err != nil {
			t.Fatalf("transfer %v: %v", input, err)
		}
	}

	_, err := f.transferSvc.MakeTransfer(ctx, MakeTransferInput{
		UserID:      "user-1",
		PlayerOutID: "s7",
		PlayerInID:  "x-scrumhalf",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected weekly limit error, got %v", err)
	}

	avail, err := f.transferSvc.Availability(ctx, "user-1")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if avail.Used != 2 || avail.Remaining != 0 {
		t.Fatalf("expected 2 used 0 remaining, got %+v", avail)
	}

	// A new gameweek resets the allowance.
	if err := f.gameweeks.SetCurrent(ctx, "gw-2"); err != nil {
		t.Fatalf("advance gameweek: %v", err)
	}
	avail, err = f.transferSvc.Availability(ctx, "user-1")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if avail.Remaining != 2 {
		t.Fatalf("expected fresh allowance of 2, got %+v", avail)
	}
}

func TestMakeTransfer_RejectsAfterDeadline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1")
	f.startSeason(t)

	// gw-1's deadline is 2026-02-12 19:30.
	f.transferSvc.now = func() time.Time { return time.Date(2026, 2, 12, 19, 31, 0, 0, time.UTC) }

	_, err := f.transferSvc.MakeTransfer(ctx, MakeTransferInput{
		UserID:      "user-1",
		PlayerOutID: "s2",
		PlayerInID:  "x-winger",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput after the deadline, got %v", err)
	}

	avail, err := f.transferSvc.Availability(ctx, "user-1")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if !avail.DeadlinePassed {
		t.Fatalf("expected deadline passed, got %+v", avail)
	}
	if avail.Remaining != 0 {
		t.Fatalf("expected 0 remaining after the deadline, got %+v", avail)
	}
}

func TestMakeTransfer_PreSeasonIsUnlimited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1")

	// gw-0 stays current; three swaps exceed the weekly allowance of two.
	swaps := []MakeTransferInput{
		{UserID: "user-1", PlayerOutID: "s2", PlayerInID: "x-winger"},
		{UserID: "user-1", PlayerOutID: "s6", PlayerInID: "x-standoff"},
		{UserID: "user-1", PlayerOutID: "s7", PlayerInID: "x-scrumhalf"},
	}
	for _, input := range swaps {
		if _, err := f.transferSvc.MakeTransfer(ctx, input); err != nil {
			t.Fatalf("pre-season transfer %v: %v", input, err)
		}
	}

	avail, err := f.transferSvc.Availability(ctx, "user-1")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if !avail.Unlimited {
		t.Fatalf("expected unlimited availability pre-season, got %+v", avail)
	}
	if avail.Remaining != avail.MaxPerWeek {
		t.Fatalf("expected full allowance reported pre-season, got %+v", avail)
	}
}

func TestMakeTransfer_ReverseRestoresBank(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1")
	f.startSeason(t)

	if err := f.players.UpdatePrice(ctx, "x-winger", 180); err != nil {
		t.Fatalf("update price: %v", err)
	}

	before, _, err := f.squads.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get squad: %v", err)
	}

	if _, err := f.transferSvc.MakeTransfer(ctx, MakeTransferInput{
		UserID:      "user-1",
		PlayerOutID: "s2",
		PlayerInID:  "x-winger",
	}); err != nil {
		t.Fatalf("make transfer: %v", err)
	}

	// A later price rise must not leak into the reversal, sales settle at
	// the recorded purchase price.
	if err := f.players.UpdatePrice(ctx, "x-winger", 210); err != nil {
		t.Fatalf("update price: %v", err)
	}

	if _, err := f.transferSvc.MakeTransfer(ctx, MakeTransferInput{
		UserID:      "user-1",
		PlayerOutID: "x-winger",
		PlayerInID:  "s2",
	}); err != nil {
		t.Fatalf("reverse transfer: %v", err)
	}

	after, _, err := f.squads.GetByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get squad: %v", err)
	}
	if after.Bank != before.Bank {
		t.Fatalf("expected bank restored to %d, got %d", before.Bank, after.Bank)
	}
	if !after.Contains("s2") || after.Contains("x-winger") {
		t.Fatalf("expected original squad restored, got starters %v", after.Starters)
	}
}

func TestMakeTransfer_InsufficientFunds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1")
	f.startSeason(t)

	// Bank is 400 and the sale returns 100, so anything above 500 is out of
	// reach.
	if err := f.players.UpdatePrice(ctx, "x-winger", 501); err != nil {
		t.Fatalf("update price: %v", err)
	}

	_, err := f.transferSvc.MakeTransfer(ctx, MakeTransferInput{
		UserID:      "user-1",
		PlayerOutID: "s2",
		PlayerInID:  "x-winger",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected insufficient funds error, got %v", err)
	}

	// Nothing applied.
	squad, _, _ := f.squads.GetByUser(ctx, "user-1")
	if !squad.Contains("s2") {
		t.Fatal("expected squad unchanged after failed transfer")
	}
}

func TestMakeTransfer_CaptainMovesWithTheArmband(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1")
	f.startSeason(t)

	if _, err := f.transferSvc.MakeTransfer(ctx, MakeTransferInput{
		UserID:      "user-1",
		PlayerOutID: "s1",
		PlayerInID:  "x-fullback",
	}); err != nil {
		t.Fatalf("make transfer: %v", err)
	}

	squad, _, _ := f.squads.GetByUser(ctx, "user-1")
	if squad.CaptainID != "x-fullback" {
		t.Fatalf("expected captaincy to pass to incoming player, got %s", squad.CaptainID)
	}
}

func TestTransferHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.saveSquad(t, "user-1")
	f.startSeason(t)

	if _, err := f.transferSvc.MakeTransfer(ctx, MakeTransferInput{
		UserID:      "user-1",
		PlayerOutID: "s2",
		PlayerInID:  "x-winger",
	}); err != nil {
		t.Fatalf("make transfer: %v", err)
	}

	history, err := f.transferSvc.History(ctx, "user-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].PlayerInID != "x-winger" {
		t.Fatalf("unexpected history %+v", history)
	}
}
