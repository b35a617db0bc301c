package qa

import "strings"

// BoilerplatePhrases mark placeholder or disclaimer text. They are stripped from
// answers and any log or history entry containing one is not persisted.
var BoilerplatePhrases = []string{
	"Not from MMEC data or not found in college files.",
	"Note: This answer is not from official MMEC data",
	"Found relevant data in",
	"not found in",
	"This chatbot provides information about Maratha Mandal Engineering College",
	"Sorry, AI service is not configured on the server",
	"Error contacting AI provider",
	"Found relevant data in offline_faq.json",
}

var notePrefixes = []string{"Note:", "Note -"}

const leadingPunct = ":-–— \n"

// Sanitize removes boilerplate phrases and note markers from every line, strips
// leading punctuation and drops lines left empty. Each line is cleaned until it stops
// changing, so Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		for {
			next := cleanLine(line)
			if next == line {
				break
			}
			line = next
		}
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func cleanLine(line string) string {
	for _, p := range BoilerplatePhrases {
		line = strings.ReplaceAll(line, p, "")
	}
	for _, p := range notePrefixes {
		line = strings.ReplaceAll(line, p, "")
	}
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, leadingPunct)
	return strings.TrimSpace(line)
}

// ContainsBoilerplate reports whether text contains any boilerplate phrase,
// ignoring case.
func ContainsBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range BoilerplatePhrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
