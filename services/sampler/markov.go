package sampler

import (
	_ "embed"
	"math/rand"
	"strings"
	"sync"
	"time"
)

//go:embed corpus.txt
var embeddedCorpus string

// endToken terminates a chain walk. It cannot collide with corpus words
// because Fields never yields a NUL byte token from text input.
const endToken = "\x00"

// modelTries is how many chain walks one ShortSentence call attempts
// before reporting exhaustion.
const modelTries = 100

// Model is a first-order word chain built from corpus lines.
//
// Each corpus line contributes its first word as a sentence start and a
// word-to-successor edge per adjacent pair, with a terminal edge after
// the last word. Sentences are generated by walking the chain from a
// random start until a terminal edge or the length bound.
//
// Thread Safety: safe for concurrent use; the random source is guarded
// by a mutex.
type Model struct {
	mu     sync.Mutex
	rng    *rand.Rand
	starts []string
	chain  map[string][]string
}

// NewModel builds a Model from corpus lines. Blank lines are skipped.
// The seed fixes the random walk order, which tests rely on.
func NewModel(lines []string, seed int64) *Model {
	m := &Model{
		rng:   rand.New(rand.NewSource(seed)),
		chain: make(map[string][]string),
	}
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		m.starts = append(m.starts, words[0])
		for i := 0; i < len(words)-1; i++ {
			m.chain[words[i]] = append(m.chain[words[i]], words[i+1])
		}
		m.chain[words[len(words)-1]] = append(m.chain[words[len(words)-1]], endToken)
	}
	return m
}

// DefaultModel builds a Model from the embedded poetry corpus.
func DefaultModel() *Model {
	return NewModel(strings.Split(embeddedCorpus, "\n"), time.Now().UnixNano())
}

// ShortSentence returns a generated sentence of at most maxChars
// characters, or false when the chain cannot satisfy the bound within
// its internal try budget.
func (m *Model) ShortSentence(maxChars int) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.starts) == 0 || maxChars <= 0 {
		return "", false
	}

	for try := 0; try < modelTries; try++ {
		sentence, ok := m.walk(maxChars)
		if ok {
			return sentence, true
		}
	}
	return "", false
}

// walk performs one chain walk. A walk succeeds only when it reaches a
// terminal edge within the length bound; walks cut short by the bound
// are discarded so every sentence ends the way a corpus line does.
func (m *Model) walk(maxChars int) (string, bool) {
	cur := m.starts[m.rng.Intn(len(m.starts))]
	if len(cur) > maxChars {
		return "", false
	}

	var b strings.Builder
	b.WriteString(cur)

	for {
		successors := m.chain[cur]
		if len(successors) == 0 {
			return "", false
		}
		next := successors[m.rng.Intn(len(successors))]
		if next == endToken {
			return b.String(), true
		}
		if b.Len()+1+len(next) > maxChars {
			return "", false
		}
		b.WriteByte(' ')
		b.WriteString(next)
		cur = next
	}
}
