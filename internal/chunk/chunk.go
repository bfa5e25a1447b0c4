// Package chunk splits rendered text into pieces that fit a chat message.
package chunk

import (
	"strings"
	"unicode/utf8"
)

const (
	fenceOpen  = "```\n"
	fenceClose = "```"
)

// FenceOverhead is the space to reserve in a message for Fence.
var FenceOverhead = utf8.RuneCountInString(fenceOpen + "\n" + fenceClose)

// PackLines greedily packs the lines of text into chunks. Every line is
// kept whole and followed by a newline. A chunk is closed once adding the
// next line would bring it to limit characters or more, so a chunk holding
// several lines is always shorter than limit. The first line of a chunk is
// always taken: a line of limit-1 characters makes a chunk of exactly
// limit, and a longer line gets a chunk to itself that exceeds it.
func PackLines(text string, limit int) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	var (
		chunks []string
		cur    strings.Builder
		size   int
	)
	for _, line := range lines {
		n := utf8.RuneCountInString(line) + 1
		if size > 0 && size+n >= limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
			size = 0
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		size += n
	}
	if size > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// Fence wraps every chunk in a code block.
func Fence(chunks []string) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = fenceOpen + c + fenceClose
	}
	return out
}
