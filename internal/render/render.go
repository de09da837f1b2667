package render

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chatstat/internal/stats"
)

const (
	colorReset   = "\033[0m"
	colorSender  = "\033[1;34m" // bold blue
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

type Options struct {
	Sender  string
	Hit     int    // source line of the hit message, 0 = none
	Context int    // messages before/after hit to show; 0 = 10, <0 = all
	Width   int    // wrap width (0 = no wrap)
	Query   string // search query for keyword highlighting
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
// Matches are found on the plain text first, so one term never matches inside
// the codes inserted for another.
func highlightKeywords(text, query string) string {
	lowerText := strings.ToLower(text)
	if len(lowerText) != len(text) {
		return text // case folding changed byte offsets
	}

	var spans [][2]int
	for _, term := range strings.Fields(query) {
		term = strings.ToLower(strings.Trim(term, `"`))
		if term == "" {
			continue
		}
		for i := 0; i < len(lowerText); {
			idx := strings.Index(lowerText[i:], term)
			if idx < 0 {
				break
			}
			spans = append(spans, [2]int{i + idx, i + idx + len(term)})
			i += idx + len(term)
		}
	}
	if len(spans) == 0 {
		return text
	}

	slices.SortFunc(spans, func(a, b [2]int) int { return cmp.Compare(a[0], b[0]) })
	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp[0] <= last[1] {
			last[1] = max(last[1], sp[1])
			continue
		}
		merged = append(merged, sp)
	}

	var b strings.Builder
	pos := 0
	for _, sp := range merged {
		b.WriteString(text[pos:sp[0]])
		b.WriteString(colorBoldRed)
		b.WriteString(text[sp[0]:sp[1]])
		b.WriteString(colorReset)
		pos = sp[1]
	}
	b.WriteString(text[pos:])
	return b.String()
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth && visW > 0 {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}
	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// window picks the entries to show around the hit and its index in the window.
func window(entries []stats.Entry, hit, context int) (start, end, hitIdx int) {
	hitIdx = -1
	for i, e := range entries {
		if hit > 0 && e.Line == hit {
			hitIdx = i
			break
		}
	}
	if context < 0 || hitIdx < 0 {
		return 0, len(entries), hitIdx
	}
	start = max(hitIdx-context, 0)
	end = min(hitIdx+context+1, len(entries))
	return start, end, hitIdx - start
}

// RenderHistory renders a sender's history and returns the content and the
// 0-based output line of the hit message header (-1 if no hit).
func RenderHistory(entries []stats.Entry, opts Options) (string, int) {
	if opts.Context == 0 {
		opts.Context = 10
	}
	if len(entries) == 0 {
		return fmt.Sprintf("(no messages from %s)\n", opts.Sender), -1
	}

	start, end, hitIdx := window(entries, opts.Hit, opts.Context)
	shown := entries[start:end]

	var b strings.Builder
	hitLine := -1
	lineCount := 0
	separator := colorDim + strings.Repeat("-", 50) + colorReset

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	writeLine(fmt.Sprintf("%s--- %s (%d messages) ---%s", colorDim, opts.Sender, len(entries), colorReset))

	if start > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages before) ...%s", colorDim, start, colorReset))
	}

	for i, e := range shown {
		if i > 0 {
			writeLine(separator)
		}

		stamp := e.Date + " " + e.Time
		if i == hitIdx {
			hitLine = lineCount
			writeLine(fmt.Sprintf("%s>> %s > %s <<%s", colorHit, opts.Sender, stamp, colorReset))
		} else {
			writeLine(fmt.Sprintf("%s%s >%s %s%s%s", colorSender, opts.Sender, colorReset, colorDim, stamp, colorReset))
		}

		text := indentLines(highlightKeywords(e.Message, opts.Query), "  ")
		for _, tl := range strings.Split(text, "\n") {
			writeLine(tl)
		}
	}

	if after := len(entries) - end; after > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages after) ...%s", colorDim, after, colorReset))
	}

	return b.String(), hitLine
}
