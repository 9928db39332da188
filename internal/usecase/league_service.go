package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/tryline/fantasy-rugby/internal/domain/league"
	"github.com/tryline/fantasy-rugby/internal/domain/roster"
	idgen "github.com/tryline/fantasy-rugby/internal/platform/id"
)

const inviteCodeAttempts = 5

type LeagueService struct {
	leagueRepo league.Repository
	squadRepo  roster.Repository
	idGen      interface {
		idgen.Generator
		idgen.CodeGenerator
	}
	logger *slog.Logger
	now    func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	squadRepo roster.Repository,
	idGen *idgen.RandomGenerator,
	logger *slog.Logger,
) *LeagueService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LeagueService{
		leagueRepo: leagueRepo,
		squadRepo:  squadRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateLeague opens a private league and enrols the creator. The invite
// code is regenerated on collision.
func (s *LeagueService) CreateLeague(ctx context.Context, userID, name string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	name = strings.TrimSpace(name)
	if userID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}

	code, err := s.freshInviteCode(ctx)
	if err != nil {
		return league.League{}, err
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	now := s.now().UTC()
	l := league.League{
		ID:         id,
		Name:       name,
		InviteCode: code,
		CreatorID:  userID,
		CreatedAt:  now,
	}
	if err := l.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Create(ctx, l); err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}
	if err := s.leagueRepo.AddMember(ctx, league.Membership{
		LeagueID: l.ID,
		UserID:   userID,
		JoinedAt: now,
	}); err != nil {
		return league.League{}, fmt.Errorf("enrol creator: %w", err)
	}

	s.logger.InfoContext(ctx, "league created", "league_id", l.ID, "creator_id", userID)
	return l, nil
}

// JoinLeague enrols the user in the league behind an invite code.
func (s *LeagueService) JoinLeague(ctx context.Context, userID, inviteCode string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	if userID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(inviteCode) != league.CodeLength {
		return league.League{}, fmt.Errorf("%w: invite code must be %d characters", ErrInvalidInput, league.CodeLength)
	}

	l, exists, err := s.leagueRepo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by invite code: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: no league with that invite code", ErrNotFound)
	}

	member, err := s.leagueRepo.IsMember(ctx, l.ID, userID)
	if err != nil {
		return league.League{}, fmt.Errorf("check membership: %w", err)
	}
	if member {
		return league.League{}, fmt.Errorf("%w: already a member of %s", ErrConflict, l.Name)
	}

	if err := s.leagueRepo.AddMember(ctx, league.Membership{
		LeagueID: l.ID,
		UserID:   userID,
		JoinedAt: s.now().UTC(),
	}); err != nil {
		return league.League{}, fmt.Errorf("add member: %w", err)
	}

	s.logger.InfoContext(ctx, "league joined", "league_id", l.ID, "user_id", userID)
	return l, nil
}

func (s *LeagueService) ListMyLeagues(ctx context.Context, userID string) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMyLeagues")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.leagueRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return items, nil
}

// Standings ranks a league's members by total squad points. Equal totals
// share a rank and the next rank skips accordingly.
func (s *LeagueService) Standings(ctx context.Context, leagueID, userID string) ([]league.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Standings")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	userID = strings.TrimSpace(userID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}

	member, err := s.leagueRepo.IsMember(ctx, leagueID, userID)
	if err != nil {
		return nil, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return nil, fmt.Errorf("%w: not a member of league %s", ErrUnauthorized, leagueID)
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.UserID)
	}

	squads, err := s.squadRepo.GetByUsers(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("get member squads: %w", err)
	}
	squadByUser := make(map[string]roster.Squad, len(squads))
	for _, squad := range squads {
		squadByUser[squad.UserID] = squad
	}

	standings := make([]league.Standing, 0, len(members))
	for _, m := range members {
		row := league.Standing{UserID: m.UserID}
		if squad, ok := squadByUser[m.UserID]; ok {
			row.SquadName = squad.Name
			row.TotalPoints = squad.TotalPoints
		}
		standings = append(standings, row)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].TotalPoints != standings[j].TotalPoints {
			return standings[i].TotalPoints > standings[j].TotalPoints
		}
		return standings[i].UserID < standings[j].UserID
	})

	for i := range standings {
		if i > 0 && standings[i].TotalPoints == standings[i-1].TotalPoints {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}

	return standings, nil
}

func (s *LeagueService) freshInviteCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := s.idGen.NewCode(league.CodeLength)
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		_, exists, err := s.leagueRepo.GetByInviteCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check invite code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", fmt.Errorf("%w: could not allocate a unique invite code", ErrDependencyUnavailable)
}
