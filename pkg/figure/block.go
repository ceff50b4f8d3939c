package figure

import (
	"regexp"
	"strings"
)

// Block is one [FIGURE] ... [/FIGURE] section of a larger text.
type Block struct {
	Index  int    // position among the blocks of the text, from 0
	Offset int    // byte offset of the opening marker
	Text   string // content between the markers, trimmed
}

var blockRe = regexp.MustCompile(`(?is)\[FIGURE\](.*?)\[/FIGURE\]`)

// ExtractBlocks returns every figure block in text, in order. Markers are
// matched case-insensitively.
func ExtractBlocks(text string) []Block {
	var blocks []Block
	for i, m := range blockRe.FindAllStringSubmatchIndex(text, -1) {
		blocks = append(blocks, Block{
			Index:  i,
			Offset: m[0],
			Text:   strings.TrimSpace(text[m[2]:m[3]]),
		})
	}
	return blocks
}

// NormalizeBlock prepares a block for YAML decoding.
//
// Blocks copied out of an indented question bank usually lose the
// indentation of their first line only. When the first non-blank line has
// no indent but every later line shares a positive one, the first line is
// given that indent. The common indentation is then removed.
func NormalizeBlock(block string) string {
	lines := strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n")

	first := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			first = i
			break
		}
	}
	if first == -1 {
		return strings.TrimSpace(block)
	}

	minRest := -1
	for _, l := range lines[first+1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if ind := indentOf(l); minRest == -1 || ind < minRest {
			minRest = ind
		}
	}
	if indentOf(lines[first]) == 0 && minRest > 0 {
		lines[first] = strings.Repeat(" ", minRest) + lines[first]
	}

	return dedent(lines)
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// dedent removes the longest common leading whitespace of the non-blank
// lines. Blank lines become empty.
func dedent(lines []string) string {
	prefix := ""
	found := false
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		ws := l[:indentOf(l)]
		if !found {
			prefix, found = ws, true
			continue
		}
		prefix = commonPrefix(prefix, ws)
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out[i] = strings.TrimPrefix(l, prefix)
	}
	return strings.Join(out, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
