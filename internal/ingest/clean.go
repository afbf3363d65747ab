package ingest

import (
	"regexp"
	"strings"
)

// Noise patterns observed in the source documents: URLs, print artifacts
// (page counters, timestamps), and the boilerplate headers repeated on
// every page of the office of education booklets.
var (
	urlRe       = regexp.MustCompile(`https?://\S+`)
	pageFracRe  = regexp.MustCompile(`\d+/\d+`)
	timestampRe = regexp.MustCompile(`\d+\.\s*\d+\.\s*\d+\.\s*(오전|오후)\s*\d+:\d+`)

	boilerplateRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)초등학교_?학교자율시간_?운영_?(톺아보기|돌아보기)\s*\(?최적화\)?`),
		regexp.MustCompile(`(?i)중학교_?학교자율시간_?운영_?(톺아보기|돌아보기)\s*\(?최적화\)?`),
		regexp.MustCompile(`(?i)초등학교\s+학교자율시간\s*(톺아보기|돌아보기)`),
		regexp.MustCompile(`(?i)중학교\s+학교자율시간\s*(톺아보기|돌아보기)`),
		regexp.MustCompile(`2022\s*개정\s*교육과정\s*적용에\s*따른`),
		regexp.MustCompile(`경상북도교육청\s*(연구원)?`),
		regexp.MustCompile(`따뜻한\s*경북교육`),
		regexp.MustCompile(`세계교육을\s*(품습니다|이끌어갑니다)!?`),
		regexp.MustCompile(`(?i)Gyeongsangbuk-do Office of Education`),
	}

	tocLineRe     = regexp.MustCompile(`(?m)^목차\s*$`)
	romanLineRe   = regexp.MustCompile(`(?m)^I+\s*$`)
	pageNumLineRe = regexp.MustCompile(`(?m)^\s*\d{1,3}\s*$`)

	blankRunRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe = regexp.MustCompile(` {3,}`)
)

// Clean applies the deterministic noise-removal passes to document text.
// It is idempotent: Clean(Clean(x)) == Clean(x).
func Clean(text string) string {
	text = urlRe.ReplaceAllString(text, "")
	text = pageFracRe.ReplaceAllString(text, "")
	text = timestampRe.ReplaceAllString(text, "")
	for _, re := range boilerplateRes {
		text = re.ReplaceAllString(text, "")
	}
	text = tocLineRe.ReplaceAllString(text, "")
	text = romanLineRe.ReplaceAllString(text, "")
	text = pageNumLineRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
