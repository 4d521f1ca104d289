package services

import (
	"context"

	"github.com/arafhm/minigram/backend/internal/models"
	"github.com/arafhm/minigram/backend/internal/repositories"
)

// UserResolver hydrates identity references into display projections.
type UserResolver interface {
	Resolve(ctx context.Context, uids []string) (map[string]models.UserSummary, error)
}

// RepositoryUserResolver resolves identity references through the user store
// with a single batch lookup per request.
type RepositoryUserResolver struct {
	users repositories.UserRepository
}

// NewRepositoryUserResolver creates a new RepositoryUserResolver
func NewRepositoryUserResolver(users repositories.UserRepository) *RepositoryUserResolver {
	return &RepositoryUserResolver{users: users}
}

// Resolve maps identity references to user summaries. References with no
// matching user are left out of the map.
func (r *RepositoryUserResolver) Resolve(ctx context.Context, uids []string) (map[string]models.UserSummary, error) {
	users, err := r.users.GetUsersByUIDs(dedupe(uids))
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]models.UserSummary, len(users))
	for _, u := range users {
		summaries[u.UID] = models.UserSummary{
			UID:       u.UID,
			Username:  u.Username,
			AvatarURL: u.AvatarURL,
		}
	}
	return summaries, nil
}

func dedupe(uids []string) []string {
	seen := make(map[string]struct{}, len(uids))
	out := make([]string, 0, len(uids))
	for _, uid := range uids {
		if _, ok := seen[uid]; ok {
			continue
		}
		seen[uid] = struct{}{}
		out = append(out, uid)
	}
	return out
}
