package assistant

import (
	"os"
	"path/filepath"
	"testing"
)

const faqFixture = `{
  "intents": [
    {"id": "parking", "patterns": ["parking", "park my car"], "answer": "Free on-site parking is available."},
    {"id": "pets", "patterns": ["pets", "pet friendly"], "answer": "Sorry, pets are not allowed."}
  ]
}`

func writeFAQ(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faq.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFAQMatch(t *testing.T) {
	table := NewFAQTable(writeFAQ(t, faqFixture))
	if table.Len() != 2 {
		t.Fatalf("Len = %d, want 2", table.Len())
	}

	intent, ok := table.Match("Where can I PARK my car?")
	if !ok || intent.ID != "parking" {
		t.Errorf("Match = (%v, %v), want parking", intent, ok)
	}

	if _, ok := table.Match("do you have a pool"); ok {
		t.Error("unexpected match for unrelated question")
	}
}

func TestFAQMissingFileDegradesToEmpty(t *testing.T) {
	table := NewFAQTable(filepath.Join(t.TempDir(), "nope.json"))
	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}
	if _, ok := table.Match("parking"); ok {
		t.Error("match against a missing table")
	}
}

func TestFAQMalformedFileDegradesToEmpty(t *testing.T) {
	table := NewFAQTable(writeFAQ(t, "{not json"))
	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}
}

func TestNormalizeModelReply(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", FallbackSentence},
		{"   ", FallbackSentence},
		{"I don't know the answer to that.", FallbackSentence},
		{"I'm not sure about this one.", FallbackSentence},
		{"The pool opens at 8 AM.", "The pool opens at 8 AM."},
	}
	for _, c := range cases {
		if got := NormalizeModelReply(c.in); got != c.want {
			t.Errorf("NormalizeModelReply(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
