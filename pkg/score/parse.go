package score

import (
	"strconv"
	"strings"
)

// parseSignedLevel parses a leading signed integer immediately
// followed by suffix (e.g. "soft", "hard"), returning the integer,
// the unconsumed remainder of text, and an error if the prefix did
// not match "<int><suffix>".
func parseSignedLevel(text, suffix string) (int64, string, error) {
	idx := strings.Index(text, suffix)
	if idx < 0 {
		return 0, "", parseErrorf(text, "missing %q level", suffix)
	}
	numPart := text[:idx]
	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, "", parseErrorf(text, "invalid %s integer %q: %v", suffix, numPart, err)
	}
	return n, text[idx+len(suffix):], nil
}

// splitLevels splits the canonical "a/b/c" form into its segments.
func splitLevels(text string) []string {
	return strings.Split(text, "/")
}

// parseBracketList parses "[a,b,c]suffix" into the integer slice and
// the remainder after suffix.
func parseBracketList(text, suffix string) ([]int64, string, error) {
	if !strings.HasPrefix(text, "[") {
		return nil, "", parseErrorf(text, "expected '[' to start a bendable level list")
	}
	end := strings.Index(text, "]")
	if end < 0 {
		return nil, "", parseErrorf(text, "unterminated '[' in bendable level list")
	}
	body := text[1:end]
	rest := text[end+1:]
	if !strings.HasPrefix(rest, suffix) {
		return nil, "", parseErrorf(text, "expected %q after bendable level list", suffix)
	}
	rest = rest[len(suffix):]

	var values []int64
	if body != "" {
		for _, part := range strings.Split(body, ",") {
			n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, "", parseErrorf(text, "invalid bendable level %q: %v", part, err)
			}
			values = append(values, n)
		}
	}
	return values, rest, nil
}

func formatBracketList(values []int64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(v, 10))
	}
	b.WriteByte(']')
	return b.String()
}
