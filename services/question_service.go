package services

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"

	config "github.com/dalewoodman1994/100-percent/configs"
	"github.com/dalewoodman1994/100-percent/models"
	"github.com/dalewoodman1994/100-percent/utils"
)

const (
	ModeQuickfire = "quickfire"
	ModeHardmode  = "hardmode"

	CategoryFlags = "flags"
)

const wrongChoicesPerQuestion = 3

// QuestionService assembles one quiz run from the eligible country pool:
// it picks the countries for the requested mode, then builds a
// multiple-choice question for each of them.
type QuestionService struct {
	tiers *TierClassifier
	cfg   *config.QuizConfig

	// rand.Rand is not safe for concurrent use; one run holds the lock.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuestionService creates a builder. Passing a fixed-seed rng makes runs
// reproducible; nil gets a time-seeded source.
func NewQuestionService(tiers *TierClassifier, cfg *config.QuizConfig, rng *rand.Rand) *QuestionService {
	if rng == nil {
		rng = utils.NewSeededRand()
	}
	return &QuestionService{
		tiers: tiers,
		cfg:   cfg,
		rng:   rng,
	}
}

// BuildSet produces a fresh question set for the given mode from the
// eligible pool. Quickfire selects a tier-ramped run of fixed length;
// hardmode shuffles the entire pool. The set is never padded past what the
// pool can supply.
func (s *QuestionService) BuildSet(mode string, pool []models.Country) (*models.QuestionSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var selected []models.Country
	var planned int

	switch mode {
	case ModeHardmode:
		planned = s.cfg.Hardmode.MaxQuestions
		selected = s.selectHardmode(pool)
	case ModeQuickfire:
		planned = s.cfg.Quickfire.RunLength
		selected = s.selectQuickfire(pool)
	default:
		return nil, fmt.Errorf("unknown quiz mode: %s", mode)
	}

	seen := make(map[string]int, len(selected))
	questions := make([]models.Question, 0, len(selected))
	for _, country := range selected {
		q, err := s.buildQuestion(country, pool, seen)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return &models.QuestionSet{
		Mode:           mode,
		Category:       CategoryFlags,
		TotalPlanned:   planned,
		TotalAvailable: len(pool),
		TotalUsed:      len(questions),
		GeneratedAt:    time.Now().UTC(),
		Questions:      questions,
	}, nil
}

// selectHardmode returns the whole pool in uniform random order, capped at
// the configured maximum.
func (s *QuestionService) selectHardmode(pool []models.Country) []models.Country {
	selected := make([]models.Country, len(pool))
	copy(selected, pool)
	s.shuffleCountries(selected)

	if max := s.cfg.Hardmode.MaxQuestions; len(selected) > max {
		selected = selected[:max]
	}
	return selected
}

// selectQuickfire draws the configured per-tier quotas section by section.
// Sections run easiest to hardest; shuffling happens inside each section so
// the difficulty ramp survives while repeated runs differ.
func (s *QuestionService) selectQuickfire(pool []models.Country) []models.Country {
	rules := s.cfg.Quickfire

	var tier1, tier2, tier3 []models.Country
	for _, c := range pool {
		switch s.tiers.TierOf(c.Code) {
		case Tier1:
			tier1 = append(tier1, c)
		case Tier2:
			tier2 = append(tier2, c)
		default:
			tier3 = append(tier3, c)
		}
	}

	// Shuffling each tier pool up front makes every quota draw a uniform
	// sample without replacement.
	s.shuffleCountries(tier1)
	s.shuffleCountries(tier2)
	s.shuffleCountries(tier3)

	var i1, i2, i3 int
	sections := make([][]models.Country, len(rules.Sections))
	for si, quota := range rules.Sections {
		section := make([]models.Country, 0, quota.Total())
		section, i1 = drawFrom(section, tier1, i1, quota.Tier1)
		section, i2 = drawFrom(section, tier2, i2, quota.Tier2)
		section, i3 = drawFrom(section, tier3, i3, quota.Tier3)
		sections[si] = section
	}

	drawn := 0
	for _, sec := range sections {
		drawn += len(sec)
	}

	// Quota shortfalls are topped up from whatever is still unused,
	// easier tiers first, and land in the last section so the early part
	// of the run keeps its ramp.
	if shortfall := rules.RunLength - drawn; shortfall > 0 && len(sections) > 0 {
		leftovers := make([]models.Country, 0, len(pool)-drawn)
		leftovers = append(leftovers, tier1[i1:]...)
		leftovers = append(leftovers, tier2[i2:]...)
		leftovers = append(leftovers, tier3[i3:]...)
		if shortfall > len(leftovers) {
			shortfall = len(leftovers)
		}
		last := len(sections) - 1
		sections[last] = append(sections[last], leftovers[:shortfall]...)
	}

	selected := make([]models.Country, 0, rules.RunLength)
	for _, sec := range sections {
		s.shuffleCountries(sec)
		selected = append(selected, sec...)
	}
	return selected
}

// buildQuestion assembles one multiple-choice question: the country's flag
// as the prompt and its name hidden among wrong answers drawn from the pool.
func (s *QuestionService) buildQuestion(country models.Country, pool []models.Country, seen map[string]int) (models.Question, error) {
	wrongs, err := s.pickDistractors(country, pool)
	if err != nil {
		return models.Question{}, err
	}

	choices := make([]string, 0, 1+len(wrongs))
	choices = append(choices, country.Name)
	choices = append(choices, wrongs...)
	s.rng.Shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })

	correctIndex := 0
	for i, choice := range choices {
		if choice == country.Name {
			correctIndex = i
			break
		}
	}

	return models.Question{
		PromptID:     promptID(country.Code, seen),
		ImageURL:     country.FlagImageURL,
		Choices:      choices,
		CorrectIndex: correctIndex,
	}, nil
}

// pickDistractors samples up to 3 distinct wrong names uniformly without
// replacement. With fewer than 3 other countries in the pool the choice
// list just comes out shorter; with none at all the question cannot exist.
func (s *QuestionService) pickDistractors(country models.Country, pool []models.Country) ([]string, error) {
	candidates := lo.FilterMap(pool, func(c models.Country, _ int) (string, bool) {
		return c.Name, c.Code != country.Code && c.Name != country.Name
	})
	s.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	used := map[string]bool{country.Name: true}
	wrongs := make([]string, 0, wrongChoicesPerQuestion)
	for _, name := range candidates {
		if len(wrongs) == wrongChoicesPerQuestion {
			break
		}
		if used[name] {
			continue
		}
		used[name] = true
		wrongs = append(wrongs, name)
	}

	if len(wrongs) == 0 {
		return nil, fmt.Errorf("%w: pool of %d", ErrInsufficientPool, len(pool))
	}
	return wrongs, nil
}

// promptID derives a per-run question id from the country code, suffixing a
// counter if the same code somehow shows up twice.
func promptID(code string, seen map[string]int) string {
	id := strings.ToLower(code)
	seen[id]++
	if n := seen[id]; n > 1 {
		return fmt.Sprintf("%s-%d", id, n)
	}
	return id
}

func (s *QuestionService) shuffleCountries(countries []models.Country) {
	s.rng.Shuffle(len(countries), func(i, j int) {
		countries[i], countries[j] = countries[j], countries[i]
	})
}

// drawFrom moves up to n entries from src (starting at idx) into dst and
// returns the advanced index.
func drawFrom(dst, src []models.Country, idx, n int) ([]models.Country, int) {
	for ; n > 0 && idx < len(src); n-- {
		dst = append(dst, src[idx])
		idx++
	}
	return dst, idx
}
