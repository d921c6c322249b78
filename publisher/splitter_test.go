package publisher_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/postforge/postforge/publisher"
)

func TestSplitTweet_NoSplitNeeded(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"short text", "Just shipped a new feature."},
		{"empty text", ""},
		{"exactly the limit", strings.Repeat("a", 275)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := publisher.SplitTweet(tt.text, 275)
			if len(got) != 1 || got[0] != tt.text {
				t.Errorf("SplitTweet(%q) = %q, want the input unchanged", tt.text, got)
			}
		})
	}
}

func TestSplitTweet_ChunkLengthInvariant(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 200),
		strings.Repeat("x", 1000),
		"First sentence here. " + strings.Repeat("More detail follows, with commas, and clauses. ", 20),
	}

	for _, maxLength := range []int{20, 50, 275} {
		for _, input := range inputs {
			for _, chunk := range publisher.SplitTweet(input, maxLength) {
				if len(chunk) > maxLength {
					t.Errorf("chunk of %d chars exceeds maxLength %d: %q", len(chunk), maxLength, chunk)
				}
			}
		}
	}
}

func TestSplitTweet_NoContentDropped(t *testing.T) {
	input := "Go ships with a race detector. It catches data races at runtime, which static analysis misses. " +
		"Run your tests with the -race flag, and keep an eye on the overhead: roughly 5-10x memory. " +
		"For CI pipelines that is usually a price worth paying."

	chunks := publisher.SplitTweet(input, 100)
	if len(chunks) < 2 {
		t.Fatalf("expected the input to split, got %d chunk(s)", len(chunks))
	}

	var rebuilt strings.Builder
	for i, chunk := range chunks {
		c := chunk
		if i > 0 {
			c = strings.TrimPrefix(c, "...")
		}
		if i < len(chunks)-1 {
			c = strings.TrimSuffix(c, "...")
		}
		if rebuilt.Len() > 0 {
			rebuilt.WriteString(" ")
		}
		rebuilt.WriteString(strings.TrimSpace(c))
	}

	// Collapse whitespace before comparing: the splitter trims around breaks.
	normalize := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	if normalize(rebuilt.String()) != normalize(input) {
		t.Errorf("reassembled text differs from input:\n got: %q\nwant: %q", rebuilt.String(), input)
	}
}

func TestSplitTweet_FourHundredCharsSplitsInTwo(t *testing.T) {
	sentence := "This sentence pads the thread entry out to a realistic length for testing purposes. "
	text := strings.Repeat(sentence, 5)[:400]

	chunks := publisher.SplitTweet(text, 275)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if len(chunks[0]) > 275 {
		t.Errorf("first chunk is %d chars, want <= 275", len(chunks[0]))
	}
	if !strings.HasSuffix(chunks[0], "...") {
		t.Errorf("first chunk should end with a continuation marker: %q", chunks[0])
	}
	if !strings.HasPrefix(chunks[1], "...") {
		t.Errorf("second chunk should start with a continuation marker: %q", chunks[1])
	}
}

func TestSplitTweet_PrefersSentenceBoundaries(t *testing.T) {
	text := "A complete first sentence that runs fairly long so the boundary sits past the midpoint. " +
		"The rest of the text continues on and on with plenty more to say about the subject at hand."

	chunks := publisher.SplitTweet(text, 120)
	if len(chunks) < 2 {
		t.Fatalf("expected a split, got %d chunk(s)", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "....") && !strings.HasSuffix(strings.TrimSuffix(chunks[0], "..."), ".") {
		t.Errorf("first chunk should break after a sentence: %q", chunks[0])
	}
}

func TestSplitTweet_NeverSplitsARune(t *testing.T) {
	inputs := []string{
		strings.Repeat("💡", 100),
		strings.Repeat("héllo wörld ", 40),
		"no spaces here " + strings.Repeat("火水木金土", 30),
	}

	for _, maxLength := range []int{9, 30, 100, 275} {
		for _, input := range inputs {
			chunks := publisher.SplitTweet(input, maxLength)

			var rebuilt strings.Builder
			for _, chunk := range chunks {
				if !utf8.ValidString(chunk) {
					t.Fatalf("maxLength %d: chunk %q is not valid UTF-8", maxLength, chunk)
				}
				if len(chunk) > maxLength {
					t.Errorf("maxLength %d: chunk of %d bytes exceeds the limit", maxLength, len(chunk))
				}
				rebuilt.WriteString(strings.TrimSpace(strings.Trim(chunk, ".")))
			}
			// Every multi-byte character survives somewhere in the output.
			joined := rebuilt.String()
			for _, r := range input {
				if r > utf8.RuneSelf && !strings.ContainsRune(joined, r) {
					t.Fatalf("maxLength %d: rune %q lost from the output", maxLength, r)
				}
			}
		}
	}
}

func TestSplitTweet_TerminatesOnPathologicalInput(t *testing.T) {
	// No spaces at all and a tiny limit exercise the hard-cut path.
	chunks := publisher.SplitTweet(strings.Repeat("z", 300), 7)

	total := 0
	for _, c := range chunks {
		if len(c) > 7 {
			t.Errorf("chunk %q exceeds the limit", c)
		}
		total += len(c)
	}
	if total < 300 {
		t.Errorf("hard-cut chunks cover %d chars, want at least the input's 300", total)
	}
}
