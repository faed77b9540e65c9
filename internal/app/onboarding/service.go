package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"klondike/internal/ports"
)

// Result captures what onboarding assigned to the account.
type Result struct {
	DisplayName string
}

// Service handles post-auth onboarding for new users.
type Service struct {
	accounts ports.AccountPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service.
// accounts must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		rng:      rng,
	}
}

// OnboardNewUser gives a newly created account a friendly display name.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}
	if userID == "" {
		return Result{}, fmt.Errorf("user id is required")
	}

	displayName := s.generateFriendlyName()
	if err := s.accounts.UpdateProfile(ctx, userID, "", displayName); err != nil {
		return Result{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return Result{DisplayName: displayName}, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Patient", "Lucky", "Quiet", "Clever", "Steady", "Calm", "Nimble", "Sly", "Bold", "Keen"}
	nouns := []string{"Ace", "King", "Queen", "Jack", "Joker", "Dealer", "Shuffler", "Gambit", "Spade", "Heart"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
