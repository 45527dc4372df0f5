package session

import (
	"errors"
	"fmt"
	"sync"

	"trybud/internal/leveling"
	"trybud/internal/model"

	lru "github.com/hashicorp/golang-lru"
)

const (
	DefaultCapacity = 10_000
	DemoBonus       = 100

	// MaxBonusAward bounds a single award and MaxBonusTotal the session total,
	// so bonus points can never overflow the metrics computed from them.
	MaxBonusAward = 1_000
	MaxBonusTotal = 100_000
)

var ErrInvalidBonus = errors.New("invalid bonus points")

// Session is the per-wallet state that never reaches the ledger: demo bonus
// points and the buddy stage last shown to the user.
type Session struct {
	Owner       model.Address
	BonusPoints int
	Stage       int
	stageSeen   bool
}

// Store keeps sessions in a bounded LRU. Evicted sessions lose their bonus.
type Store struct {
	mu    sync.Mutex
	cache *lru.Cache
}

func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

// get must be called with mu held.
func (s *Store) get(owner model.Address) *Session {
	if v, ok := s.cache.Get(owner); ok {
		return v.(*Session)
	}
	sess := &Session{Owner: owner}
	s.cache.Add(owner, sess)
	return sess
}

func (s *Store) BonusPoints(owner model.Address) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.get(owner).BonusPoints
}

// AwardBonus adds points to the session and returns the new bonus total.
func (s *Store) AwardBonus(owner model.Address, points int) (int, error) {
	if points <= 0 || points > MaxBonusAward {
		return 0, fmt.Errorf("%w: award must be between 1 and %d, got %d", ErrInvalidBonus, MaxBonusAward, points)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(owner)
	if sess.BonusPoints > MaxBonusTotal-points {
		return sess.BonusPoints, fmt.Errorf("%w: session total is capped at %d", ErrInvalidBonus, MaxBonusTotal)
	}
	sess.BonusPoints += points
	return sess.BonusPoints, nil
}

// ObserveStage records the stage now shown to the user and reports whether it
// went up since the previous observation. The first observation never counts
// as an increase.
func (s *Store) ObserveStage(owner model.Address, stage int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(owner)
	increased := sess.stageSeen && leveling.StageIncreased(sess.Stage, stage)
	sess.Stage = stage
	sess.stageSeen = true
	return increased
}
