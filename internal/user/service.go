package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=user
type Repository interface {
	FindProfiles(ctx context.Context, ids []uuid.UUID) ([]*User, error)
	FindUsers(ctx context.Context, ids []uuid.UUID) ([]*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve looks up ids in profiles first. Ids without a profile, or whose
// profile lacks a name or email, are completed from the users table. Ids
// found in neither are absent from the result.
func (s *Service) Resolve(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*User, error) {
	ids = unique(ids)

	resolved := make(map[uuid.UUID]*User, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}

	profiles, err := s.repo.FindProfiles(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("finding profiles: %w", err)
	}

	for _, p := range profiles {
		resolved[p.ID] = p
	}

	var pending []uuid.UUID

	for _, id := range ids {
		if u, ok := resolved[id]; !ok || !u.complete() {
			pending = append(pending, id)
		}
	}

	if len(pending) == 0 {
		return resolved, nil
	}

	users, err := s.repo.FindUsers(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("finding users: %w", err)
	}

	for _, u := range users {
		existing, ok := resolved[u.ID]
		if !ok {
			resolved[u.ID] = u

			continue
		}

		if existing.FullName == "" {
			existing.FullName = u.FullName
		}

		if existing.Email == "" {
			existing.Email = u.Email
		}
	}

	return resolved, nil
}

func unique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))

	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
