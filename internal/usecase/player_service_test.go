package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tryline/fantasy-rugby/internal/domain/player"
)

func TestListPlayers_FilterAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	page, err := f.playerSvc.ListPlayers(ctx, player.ListFilter{Position: player.PositionWinger})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if page.Total != 4 {
		t.Fatalf("expected 4 wingers, got %d", page.Total)
	}
	for _, p := range page.Items {
		if p.Position != player.PositionWinger {
			t.Fatalf("unexpected position %s", p.Position)
		}
	}

	page, err = f.playerSvc.ListPlayers(ctx, player.ListFilter{PageSize: 5, Page: 2})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(page.Items) != 5 || page.Page != 2 {
		t.Fatalf("expected second page of 5, got %d items page %d", len(page.Items), page.Page)
	}

	if _, err := f.playerSvc.ListPlayers(ctx, player.ListFilter{Position: "Fly Half"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown position, got %v", err)
	}
}

func TestListPlayers_PageSizeClamped(t *testing.T) {
	f := newFixture(t)

	page, err := f.playerSvc.ListPlayers(context.Background(), player.ListFilter{PageSize: 10000})
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if page.PageSize != 200 {
		t.Fatalf("expected page size clamped to 200, got %d", page.PageSize)
	}
}

func TestUpdatePrice_Bounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updated, err := f.playerSvc.UpdatePrice(ctx, "s1", 300)
	if err != nil {
		t.Fatalf("update price: %v", err)
	}
	if updated.Price != 300 {
		t.Fatalf("expected price 300, got %d", updated.Price)
	}

	if _, err := f.playerSvc.UpdatePrice(ctx, "s1", 9); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput below minimum, got %v", err)
	}
	if _, err := f.playerSvc.UpdatePrice(ctx, "s1", 501); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput above maximum, got %v", err)
	}
	if _, err := f.playerSvc.UpdatePrice(ctx, "ghost", 100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
