package league

import "context"

type Repository interface {
	Create(ctx context.Context, l League) error
	GetByID(ctx context.Context, id string) (League, bool, error)
	GetByInviteCode(ctx context.Context, code string) (League, bool, error)
	ListByUser(ctx context.Context, userID string) ([]League, error)
	AddMember(ctx context.Context, m Membership) error
	IsMember(ctx context.Context, leagueID, userID string) (bool, error)
	ListMembers(ctx context.Context, leagueID string) ([]Membership, error)
}
