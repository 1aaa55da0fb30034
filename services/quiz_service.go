package services

import (
	"math/rand"
	"sync"
	"time"

	"github.com/anjiri1684/trivia_api/models"
)

type QuizSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewQuizSelector() *QuizSelector {
	return NewSeededQuizSelector(time.Now().UnixNano())
}

func NewSeededQuizSelector(seed int64) *QuizSelector {
	return &QuizSelector{rng: rand.New(rand.NewSource(seed))}
}

// Pick draws uniformly from the candidates whose ids are not in previous.
// ok is false when every candidate has already been played.
func (s *QuizSelector) Pick(candidates []models.Question, previous []int) (question models.Question, ok bool) {
	seen := make(map[int]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}

	unseen := make([]models.Question, 0, len(candidates))
	for _, q := range candidates {
		if _, played := seen[q.ID]; !played {
			unseen = append(unseen, q)
		}
	}
	if len(unseen) == 0 {
		return models.Question{}, false
	}

	s.mu.Lock()
	i := s.rng.Intn(len(unseen))
	s.mu.Unlock()

	return unseen[i], true
}
