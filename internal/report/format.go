package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Fixed layout of the text report.
const (
	startBanner = "REGRESSION RESULTS\n------------------\n"
	endBanner   = "================================ END OF REPORT ====================================="

	// tableRule separates the parts of the coefficient table.
	tableRule = "------------------------------------------------------------------------------------\n"

	// wrapWidth and wrapIndent lay out the instrument lists.
	wrapWidth  = 76
	wrapIndent = "             "
)

// num formats like a float64 but prints non-finite values as "nan", "inf"
// and "-inf", padded to the requested width.
type num float64

// Format implements fmt.Formatter.
func (n num) Format(f fmt.State, verb rune) {
	v := float64(n)
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		fmt.Fprintf(f, fmt.FormatString(f, verb), v)
		return
	}

	s := "nan"
	switch {
	case math.IsInf(v, 1):
		s = "inf"
	case math.IsInf(v, -1):
		s = "-inf"
	}
	if w, ok := f.Width(); ok && len(s) < w {
		pad := strings.Repeat(" ", w-len(s))
		if f.Flag('-') {
			s += pad
		} else {
			s = pad + s
		}
	}
	_, _ = f.Write([]byte(s))
}

// wrap fills text to width columns the way the instrument lists have
// always been wrapped: greedy on whitespace, hyphenated words may break
// after the hyphen, words longer than a line are cut, and continuation
// lines start with indent.
func wrap(text string, width int, indent string) string {
	chunks := splitChunks(text)
	// reversed so the next chunk is always the last element
	for i, j := 0, len(chunks)-1; i < j; i, j = i+1, j-1 {
		chunks[i], chunks[j] = chunks[j], chunks[i]
	}

	var lines []string
	for len(chunks) > 0 {
		prefix := ""
		if len(lines) > 0 {
			prefix = indent
		}
		avail := width - len(prefix)

		if len(lines) > 0 && isSpace(chunks[len(chunks)-1]) {
			chunks = chunks[:len(chunks)-1]
		}

		var line []string
		used := 0
		for len(chunks) > 0 {
			l := len(chunks[len(chunks)-1])
			if used+l > avail {
				break
			}
			line = append(line, chunks[len(chunks)-1])
			used += l
			chunks = chunks[:len(chunks)-1]
		}

		if len(chunks) > 0 && len(chunks[len(chunks)-1]) > avail {
			space := avail - used
			if avail < 1 {
				space = 1
			}
			chunk := chunks[len(chunks)-1]
			end := space
			if len(chunk) > space {
				if h := strings.LastIndex(chunk[:space], "-"); h > 0 && strings.Trim(chunk[:h], "-") != "" {
					end = h + 1
				}
			}
			line = append(line, chunk[:end])
			chunks[len(chunks)-1] = chunk[end:]
		}

		if len(line) > 0 && isSpace(line[len(line)-1]) {
			line = line[:len(line)-1]
		}
		if len(line) > 0 {
			lines = append(lines, prefix+strings.Join(line, ""))
		}
	}
	return strings.Join(lines, "\n")
}

// splitChunks splits text into alternating word and whitespace chunks.
// Whitespace characters are normalized to spaces.
func splitChunks(text string) []string {
	var chunks []string
	var cur strings.Builder
	inSpace := false
	for _, r := range text {
		space := unicode.IsSpace(r)
		if cur.Len() > 0 && space != inSpace {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		inSpace = space
		if space {
			cur.WriteByte(' ')
		} else {
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}

	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if isSpace(c) {
			out = append(out, c)
			continue
		}
		out = append(out, splitWord(c)...)
	}
	return out
}

// splitWord breaks a word where a line may end inside it: after a hyphen
// that joins two letter runs ("long-name" -> "long-", "name") and around a
// run of two or more hyphens between words ("re--gime" -> "re", "--",
// "gime").
func splitWord(word string) []string {
	rs := []rune(word)
	var parts []string
	for p := 0; p < len(rs); {
		if n := dashRunBeforeWord(rs, p); n > 0 && p > 0 && isWordPunct(rs[p-1]) {
			parts = append(parts, string(rs[p:p+n]))
			p += n
			continue
		}

		end := len(rs)
		for e := p + 1; e < len(rs); e++ {
			if rs[e] == '-' && breaksAfterHyphen(rs, e) {
				end = e + 1
				break
			}
			if isWordPunct(rs[e-1]) && dashRunBeforeWord(rs, e) > 0 {
				end = e
				break
			}
		}
		parts = append(parts, string(rs[p:end]))
		p = end
	}
	return parts
}

// breaksAfterHyphen reports whether a line may end after the hyphen at i:
// it follows two letters, or a letter-hyphen-letter run, and is followed by
// two letters with at most one hyphen between them.
func breaksAfterHyphen(rs []rune, i int) bool {
	before := i >= 2 && isLetter(rs[i-1]) &&
		(isLetter(rs[i-2]) || (rs[i-2] == '-' && i >= 3 && isLetter(rs[i-3])))
	if !before || i+2 >= len(rs) || !isLetter(rs[i+1]) {
		return false
	}
	if isLetter(rs[i+2]) {
		return true
	}
	return rs[i+2] == '-' && i+3 < len(rs) && isLetter(rs[i+3])
}

// dashRunBeforeWord returns the length of the run of hyphens starting at i
// when it is at least two long and followed by a word character, else 0.
func dashRunBeforeWord(rs []rune, i int) int {
	n := 0
	for i+n < len(rs) && rs[i+n] == '-' {
		n++
	}
	if n < 2 || i+n >= len(rs) || !isWordChar(rs[i+n]) {
		return 0
	}
	return n
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func isLetter(r rune) bool {
	return isWordChar(r) && !unicode.Is(unicode.Nd, r)
}

func isWordPunct(r rune) bool {
	return isWordChar(r) || strings.ContainsRune(`!"'&.,?`, r)
}

func isSpace(s string) bool {
	return strings.TrimSpace(s) == ""
}

// compareKeys orders equation and regime ids: numerically when both parse
// as numbers, lexically otherwise.
func compareKeys(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}
