// Package persona holds the concierge's behavioral script and the fixed
// phrase it uses when it does not know an answer.
package persona

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// FallbackPhrase is what the script tells the model to say verbatim when it
// lacks the information. Replies carrying it trigger a web search.
const FallbackPhrase = "je n’ai pas cette information mais je peux prévenir la réception si vous le souhaitez"

var fallbackMarker = normalize(FallbackPhrase)

// Config is the immutable persona. It is built once at startup and shared
// read-only by the talk pipeline and the relay.
type Config struct {
	instructions string
}

func Default() Config {
	return Config{instructions: strings.TrimSpace(conciergeInstructions)}
}

// New wraps custom instructions, rejecting blank text.
func New(instructions string) (Config, error) {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return Config{}, errors.New("persona instructions are empty")
	}
	return Config{instructions: instructions}, nil
}

// Load reads a persona override from path. An empty path yields Default.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read persona file: %w", err)
	}
	cfg, err := New(string(b))
	if err != nil {
		return Config{}, fmt.Errorf("persona file %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Instructions() string { return c.instructions }

// IsFallback reports whether reply is exactly the "answer unknown" marker,
// ignoring case, typographic quotes, spacing and closing punctuation. A reply
// that merely starts with the marker and goes on to answer is not a fallback.
func IsFallback(reply string) bool {
	n := strings.TrimRight(normalize(reply), ".!… ")
	return n != "" && n == fallbackMarker
}

var typographic = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"`", "'",
	"«", "",
	"»", "",
	" ", " ",
	" ", " ",
)

func normalize(s string) string {
	s = typographic.Replace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
