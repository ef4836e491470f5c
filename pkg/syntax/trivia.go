package syntax

import "strings"

// TriviaKind classifies non-semantic text attached to tokens.
type TriviaKind uint8

// Trivia kinds.
const (
	WhitespaceTrivia TriviaKind = iota
	EndOfLineTrivia
	CommentTrivia
	SkippedTrivia
)

// Trivia is a run of whitespace, a line break, a comment or skipped text.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// Space is a single space.
var Space = Trivia{Kind: WhitespaceTrivia, Text: " "}

// Newline is a line feed.
var Newline = Trivia{Kind: EndOfLineTrivia, Text: "\n"}

// Whitespace returns a whitespace trivia of the given text.
func Whitespace(text string) Trivia {
	return Trivia{Kind: WhitespaceTrivia, Text: text}
}

// Comment returns a comment trivia.
func Comment(text string) Trivia {
	return Trivia{Kind: CommentTrivia, Text: text}
}

// TriviaText concatenates the text of a trivia list.
func TriviaText(list []Trivia) string {
	if len(list) == 1 {
		return list[0].Text
	}

	var sb strings.Builder
	for _, tr := range list {
		sb.WriteString(tr.Text)
	}

	return sb.String()
}

func triviaWidth(list []Trivia) int {
	width := 0
	for _, tr := range list {
		width += len(tr.Text)
	}

	return width
}

// HasEndOfLine reports whether the list contains a line break.
func HasEndOfLine(list []Trivia) bool {
	for _, tr := range list {
		if tr.Kind == EndOfLineTrivia {
			return true
		}
	}

	return false
}

// ScanTrivia splits raw inter-token text into trivia: whitespace runs, line
// breaks, line and block comments. Any other byte run becomes skipped trivia.
func ScanTrivia(text string) []Trivia {
	if text == "" {
		return nil
	}

	var out []Trivia

	for i := 0; i < len(text); {
		rest := text[i:]

		switch {
		case strings.HasPrefix(rest, "\r\n"):
			out = append(out, Trivia{Kind: EndOfLineTrivia, Text: "\r\n"})
			i += 2
		case rest[0] == '\n':
			out = append(out, Newline)
			i++
		case rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\r' || rest[0] == '\f' || rest[0] == '\v':
			j := 1
			for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t' || rest[j] == '\f' || rest[j] == '\v' ||
				(rest[j] == '\r' && (j+1 >= len(rest) || rest[j+1] != '\n'))) {
				j++
			}

			out = append(out, Trivia{Kind: WhitespaceTrivia, Text: rest[:j]})
			i += j
		case strings.HasPrefix(rest, "//"):
			j := strings.IndexAny(rest, "\r\n")
			if j < 0 {
				j = len(rest)
			}

			out = append(out, Trivia{Kind: CommentTrivia, Text: rest[:j]})
			i += j
		case strings.HasPrefix(rest, "/*"):
			j := strings.Index(rest[2:], "*/")
			if j < 0 {
				j = len(rest)
			} else {
				j += 4
			}

			out = append(out, Trivia{Kind: CommentTrivia, Text: rest[:j]})
			i += j
		default:
			j := 1
			for j < len(rest) && !strings.ContainsRune(" \t\r\n\f\v/", rune(rest[j])) {
				j++
			}

			out = append(out, Trivia{Kind: SkippedTrivia, Text: rest[:j]})
			i += j
		}
	}

	return out
}

// SplitTrivia splits the trivia between two tokens: everything up to and
// including the first line break trails the previous token, the rest leads
// the next one.
func SplitTrivia(list []Trivia) (trailing, leading []Trivia) {
	for i, tr := range list {
		if tr.Kind == EndOfLineTrivia {
			return list[:i+1], list[i+1:]
		}
	}

	return list, nil
}
