package markdown

import (
	"regexp"
	"strings"
)

var (
	reImageTag    = regexp.MustCompile(`<Image\b[^>]*>`)
	reJSXNumber   = regexp.MustCompile(`=\{(\d+(?:\.\d+)?)\}`)
	reJSXString   = regexp.MustCompile(`=\{\s*["']([^"']*)["']\s*\}`)
	reJSXComment  = regexp.MustCompile(`\{/\*[\s\S]*?\*/\}`)
	reFenceMarker = regexp.MustCompile("^ {0,3}(```|~~~)")
)

// PreprocessMDX lowers the MDX-only constructs used in posts to plain
// Markdown/HTML: top-level import/export blocks are removed, JSX comments are
// dropped and <Image> components become <img> tags. Fenced code is untouched.
func PreprocessMDX(src string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))

	fence := ""
	inESM := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")

		if m := reFenceMarker.FindStringSubmatch(trimmed); m != nil {
			switch {
			case fence == "":
				fence = m[1]
			case fence == m[1]:
				fence = ""
			}
			out = append(out, line)
			continue
		}
		if fence != "" {
			out = append(out, line)
			continue
		}

		if inESM {
			if strings.TrimSpace(trimmed) == "" {
				inESM = false
				out = append(out, line)
			}
			continue
		}
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "export ") {
			inESM = true
			continue
		}

		out = append(out, rewriteJSX(line))
	}
	return strings.Join(out, "\n")
}

func rewriteJSX(line string) string {
	line = reJSXComment.ReplaceAllString(line, "")
	return reImageTag.ReplaceAllStringFunc(line, func(tag string) string {
		tag = "<img" + strings.TrimPrefix(tag, "<Image")
		tag = reJSXNumber.ReplaceAllString(tag, `="$1"`)
		return reJSXString.ReplaceAllString(tag, `="$1"`)
	})
}
