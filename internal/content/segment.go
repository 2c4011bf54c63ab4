package content

import (
	"regexp"
	"strings"

	"github.com/SaraAliaj/AiSchoolFinal-sub000/pkg/models"
)

// Fragment is one tagged piece of a scanned document. Keeping the scanner a
// pure text -> []Fragment function makes it testable without any I/O.
type FragmentKind int

const (
	FragmentUnstructured FragmentKind = iota
	FragmentSection
	FragmentCode
)

type Fragment struct {
	Kind     FragmentKind
	Heading  string
	Language string
	Body     string
}

var headingColonRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 \-']{0,60}:$`)

// Segment scans extracted lesson text line by line. ALL-CAPS lines and
// "Heading:" lines open sections; ``` fences and "# Code example" markers
// open code blocks. Anything before the first marker is unstructured.
func Segment(text string) []Fragment {
	var frags []Fragment
	var cur *Fragment
	var body []string
	inFence := false

	flush := func() {
		if cur == nil {
			return
		}
		cur.Body = strings.TrimSpace(strings.Join(body, "\n"))
		if cur.Body != "" || cur.Heading != "" {
			frags = append(frags, *cur)
		}
		cur = nil
		body = nil
	}
	open := func(f Fragment) {
		flush()
		cur = &f
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				inFence = false
				flush()
			} else {
				inFence = true
				open(Fragment{Kind: FragmentCode, Language: strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))})
			}
			continue
		}
		if inFence {
			body = append(body, line)
			continue
		}

		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "# code example") {
			title := strings.TrimSpace(trimmed[len("# code example"):])
			title = strings.TrimLeft(title, ":- ")
			open(Fragment{Kind: FragmentCode, Heading: title})
			continue
		}
		if isAllCapsHeading(trimmed) {
			open(Fragment{Kind: FragmentSection, Heading: trimmed})
			continue
		}
		if headingColonRe.MatchString(trimmed) {
			open(Fragment{Kind: FragmentSection, Heading: strings.TrimSuffix(trimmed, ":")})
			continue
		}

		// marker-less code blocks end at the first blank line
		if cur != nil && cur.Kind == FragmentCode && trimmed == "" && len(body) > 0 {
			flush()
			continue
		}

		if cur == nil {
			if trimmed == "" {
				continue
			}
			cur = &Fragment{Kind: FragmentUnstructured}
		}
		body = append(body, line)
	}
	flush()

	return frags
}

func isAllCapsHeading(s string) bool {
	if s == "" || len(s) > 80 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// Build assembles the responder's lesson structure from scanned fragments.
// Topics mirror section headings in document order.
func Build(title, text string) *models.LessonContent {
	lc := &models.LessonContent{Title: title}

	for _, f := range Segment(text) {
		switch f.Kind {
		case FragmentUnstructured:
			if lc.Overview == "" {
				lc.Overview = f.Body
			} else if len(lc.Sections) > 0 {
				// stray prose after a section belongs to that section
				last := &lc.Sections[len(lc.Sections)-1]
				last.Body = strings.TrimSpace(last.Body + "\n" + f.Body)
			}
		case FragmentSection:
			lc.Topics = append(lc.Topics, f.Heading)
			lc.Sections = append(lc.Sections, models.Section{Heading: f.Heading, Body: f.Body})
		case FragmentCode:
			name := f.Heading
			if name == "" {
				name = "Code example"
			}
			lc.CodeExamples = append(lc.CodeExamples, models.CodeExample{
				Language: f.Language,
				Title:    name,
				Code:     f.Body,
			})
		}
	}

	return lc
}
