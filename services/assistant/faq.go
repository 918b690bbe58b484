package assistant

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
)

// FAQIntent is one externally loaded pattern/answer pair. Patterns are
// matched as case-insensitive substrings, first hit wins.
type FAQIntent struct {
	ID       string   `json:"id"`
	Patterns []string `json:"patterns"`
	Answer   string   `json:"answer"`
}

type faqFile struct {
	Intents []FAQIntent `json:"intents"`
}

// FAQTable holds the static FAQ source, loaded once and cached for the
// process lifetime. A missing or malformed file degrades to an empty table.
type FAQTable struct {
	path    string
	once    sync.Once
	intents []FAQIntent
}

// NewFAQTable creates a lazy-loading FAQ table for the given JSON file.
func NewFAQTable(path string) *FAQTable {
	return &FAQTable{path: path}
}

func (t *FAQTable) load() {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return
	}
	var f faqFile
	if err := json.Unmarshal(data, &f); err != nil {
		return
	}
	t.intents = f.Intents
}

// Match returns the first intent whose pattern occurs in the question.
func (t *FAQTable) Match(question string) (*FAQIntent, bool) {
	t.once.Do(t.load)
	q := strings.ToLower(question)
	for i := range t.intents {
		for _, p := range t.intents[i].Patterns {
			if p != "" && strings.Contains(q, strings.ToLower(p)) {
				return &t.intents[i], true
			}
		}
	}
	return nil, false
}

// Len reports how many intents were loaded (after forcing the load).
func (t *FAQTable) Len() int {
	t.once.Do(t.load)
	return len(t.intents)
}
