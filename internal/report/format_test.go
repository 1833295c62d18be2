package report

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	t.Parallel()

	var xs []string
	for i := range 30 {
		xs = append(xs, fmt.Sprintf("X%d", i))
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "fits on one line",
			text: "Instrumented: HOVAL, W_CRIME",
			want: "Instrumented: HOVAL, W_CRIME",
		},
		{
			name: "greedy wrap with continuation indent",
			text: "Instruments: " + strings.Join(xs, ", "),
			want: "Instruments: X0, X1, X2, X3, X4, X5, X6, X7, X8, X9, X10, X11, X12, X13,\n" +
				"             X14, X15, X16, X17, X18, X19, X20, X21, X22, X23, X24, X25,\n" +
				"             X26, X27, X28, X29",
		},
		{
			name: "long word is cut to fill the line",
			text: "Instrumented: " + strings.Repeat("A", 90) + ", B",
			want: "Instrumented: " + strings.Repeat("A", 62) + "\n" +
				"             " + strings.Repeat("A", 28) + ", B",
		},
		{
			name: "hyphenated word breaks after a hyphen",
			text: "Instruments: aa, VERYLONGNAME-WITH-HYPHENS-THAT-KEEPS-GOING-ON-AND-ON-FOREVER-AND-EVER-AND-EVER",
			want: "Instruments: aa, VERYLONGNAME-WITH-HYPHENS-THAT-KEEPS-GOING-ON-AND-ON-\n" +
				"             FOREVER-AND-EVER-AND-EVER",
		},
		{
			name: "double hyphen breaks before the following word",
			text: "Instruments: W_INC, DISCBD, EXPENDITURE_PER_CAPITA_LONGER, regimes--indicator, X1, X2",
			want: "Instruments: W_INC, DISCBD, EXPENDITURE_PER_CAPITA_LONGER, regimes--\n" +
				"             indicator, X1, X2",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := wrap(tt.text, wrapWidth, wrapIndent)
			if got != tt.want {
				t.Errorf("wrap() =\n%q\nwant\n%q", got, tt.want)
			}
			for _, line := range strings.Split(got, "\n") {
				if len(line) > wrapWidth {
					t.Errorf("line exceeds %d columns: %q", wrapWidth, line)
				}
			}
		})
	}
}

func TestSplitWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		word string
		want []string
	}{
		{word: "plain", want: []string{"plain"}},
		{word: "long-name", want: []string{"long-", "name"}},
		{word: "x-1", want: []string{"x-1"}},
		{word: "ab-c", want: []string{"ab-c"}},
		{word: "W_INC-lag", want: []string{"W_INC-", "lag"}},
		{word: "a-b-cd", want: []string{"a-b-", "cd"}},
		{word: "re--gime", want: []string{"re", "--", "gime"}},
		{word: "x.---y2", want: []string{"x.", "---", "y2"}},
		{word: "--lead", want: []string{"--lead"}},
		{word: "tail--", want: []string{"tail--"}},
		{word: "ab--", want: []string{"ab--"}},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			t.Parallel()

			got := splitWord(tt.word)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("splitWord(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestNumFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		value  float64
		want   string
	}{
		{name: "finite", format: "%12.5f", value: 1.5, want: "     1.50000"},
		{name: "general", format: "%12.6g", value: 6014.892735, want: "     6014.89"},
		{name: "small general", format: "%12.4g", value: 9.34e-09, want: "    9.34e-09"},
		{name: "nan", format: "%12.5f", value: math.NaN(), want: "         nan"},
		{name: "positive infinity", format: "%9.4f", value: math.Inf(1), want: "      inf"},
		{name: "negative infinity left aligned", format: "%-6.2f|", value: math.Inf(-1), want: "-inf  |"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fmt.Sprintf(tt.format, num(tt.value))
			if got != tt.want {
				t.Errorf("Sprintf(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestCompareKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{a: "2", b: "10", want: -1},
		{a: "10", b: "2", want: 1},
		{a: "1", b: "1.0", want: 0},
		{a: "0", b: "_Global", want: -1},
		{a: "", b: "0", want: -1},
		{a: "north", b: "south", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()

			if got := compareKeys(tt.a, tt.b); got != tt.want {
				t.Errorf("compareKeys(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
