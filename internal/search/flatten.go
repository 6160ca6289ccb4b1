package search

import (
	"bufio"
	"bytes"
	"strings"
)

// Flatten rewrites Markdown table rows as standalone paragraphs so each row
// is indexed as its own tip. Header separator rows are dropped and cells are
// joined with a single space. Non-table lines pass through unchanged.
func Flatten(md []byte) []byte {
	var out bytes.Buffer
	sc := bufio.NewScanner(bytes.NewReader(md))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") {
			out.WriteString(line)
			out.WriteByte('\n')
			continue
		}

		var cells []string
		separator := true
		for _, c := range strings.Split(strings.Trim(trimmed, "|"), "|") {
			c = strings.TrimSpace(c)
			if strings.Trim(c, ":- ") != "" {
				separator = false
			}
			if c != "" {
				cells = append(cells, c)
			}
		}
		if separator || len(cells) == 0 {
			continue
		}
		out.WriteString(strings.Join(cells, " "))
		out.WriteString("\n\n")
	}
	// A scanner error only happens on a line over 1 MiB; keep what was read.
	return out.Bytes()
}
