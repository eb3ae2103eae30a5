package engine

import "math/rand"

// BotPolicy supplies submissions for non-human players so a round can always
// reach completeness. Implementations must be pure given the random source.
type BotPolicy interface {
	GenerateAnswer(rng *rand.Rand) string
	// GenerateVotes returns votesNeeded distinct targets drawn from the tie
	// cohort when one is in play, otherwise from eligible (never the voter).
	GenerateVotes(rng *rand.Rand, voter PlayerID, eligible []PlayerID, votesNeeded int, tieCohort []PlayerID) []PlayerID
}

// PromptSource produces the round's prompt pair: the question (or word) shown
// to innocents, and the decoy shown to impostors. Words mode hands out single
// words; standard/randomize hand out questions. The engine does not care.
type PromptSource interface {
	Draw(rng *rand.Rand, mode Mode) (prompt, impostorPrompt string)
}

type cannedBots struct {
	answers []string
}

// DefaultBots votes uniformly at random and answers from a canned list.
func DefaultBots() BotPolicy {
	return &cannedBots{
		answers: []string{
			"hmm, tough one",
			"probably seven",
			"the blue one",
			"whatever everyone else said",
			"no comment",
		},
	}
}

func (b *cannedBots) GenerateAnswer(rng *rand.Rand) string {
	return b.answers[rng.Intn(len(b.answers))]
}

func (b *cannedBots) GenerateVotes(rng *rand.Rand, voter PlayerID, eligible []PlayerID, votesNeeded int, tieCohort []PlayerID) []PlayerID {
	pool := tieCohort
	if len(pool) == 0 {
		pool = eligible
	}
	targets := make([]PlayerID, 0, len(pool))
	for _, id := range pool {
		if id != voter {
			targets = append(targets, id)
		}
	}
	if votesNeeded > len(targets) {
		votesNeeded = len(targets)
	}

	picks := make([]PlayerID, 0, votesNeeded)
	for _, i := range rng.Perm(len(targets))[:votesNeeded] {
		picks = append(picks, targets[i])
	}
	return picks
}

type cannedPrompts struct {
	questions [][2]string
	words     [][2]string
}

// DefaultPrompts is a small built-in set; a real host injects its own source.
func DefaultPrompts() PromptSource {
	return &cannedPrompts{
		questions: [][2]string{
			{"How many hours do you sleep?", "How many coffees do you drink a day?"},
			{"Rate your cooking out of ten", "Rate your driving out of ten"},
			{"Favorite day of the week?", "Least favorite day of the week?"},
		},
		words: [][2]string{
			{"lighthouse", "windmill"},
			{"penguin", "ostrich"},
			{"spaghetti", "noodles"},
		},
	}
}

func (c *cannedPrompts) Draw(rng *rand.Rand, mode Mode) (string, string) {
	pool := c.questions
	if mode == ModeWords {
		pool = c.words
	}
	pair := pool[rng.Intn(len(pool))]
	return pair[0], pair[1]
}
