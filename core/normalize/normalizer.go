// Package normalize implements the markup normalizer: shared Markdown
// post-processing applied by every format adapter. It rewrites resource
// references through the resource map, collapses excess blank lines, and
// trims stray whitespace. Normalize is pure and idempotent.
package normalize

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/bookpipe/core/resources"
)

// linkTargetRe matches the target of a Markdown link or image,
// e.g. ![alt](../images/fig.png) or [text](chapter2.xhtml).
var linkTargetRe = regexp.MustCompile(`\]\(([^()\s]+)\)`)

// blankRunRe matches runs of three or more newlines, i.e. two or more
// consecutive blank lines.
var blankRunRe = regexp.MustCompile(`\n{3,}`)

// Normalize post-processes Markdown text. Link and image targets that
// resolve in refs are rewritten to their assigned output paths;
// non-matching references are left untouched.
func Normalize(markdown string, refs *resources.Map) string {
	out := rewriteRefs(markdown, refs)
	// Trim line endings first so whitespace-only lines count as blank when
	// collapsing; doing it the other way round would not be idempotent.
	out = trimLines(out)
	out = blankRunRe.ReplaceAllString(out, "\n\n")

	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	return out + "\n"
}

// rewriteRefs replaces every resolvable link/image target with its mapped
// output path.
func rewriteRefs(markdown string, refs *resources.Map) string {
	if refs == nil || refs.Len() == 0 {
		return markdown
	}
	return linkTargetRe.ReplaceAllStringFunc(markdown, func(match string) string {
		target := match[len("](") : len(match)-1]
		mapped, ok := refs.Resolve(target)
		if !ok {
			return match
		}
		return "](" + mapped + ")"
	})
}

// trimLines removes trailing whitespace from each line.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
