package scoring

import "strings"

// normalize trims whitespace for comparison; matching itself is done with
// strings.EqualFold so the two sides never need case folding up front.
func normalize(s string) string {
	return strings.TrimSpace(s)
}

func answersEqual(submitted, expected string) bool {
	return strings.EqualFold(normalize(submitted), normalize(expected))
}

var trueFalseDomain = []string{"true", "false", "not given"}
var yesNoDomain = []string{"yes", "no", "not given"}

func inDomain(value string, domain []string) bool {
	for _, d := range domain {
		if strings.EqualFold(normalize(value), d) {
			return true
		}
	}
	return false
}

// scoreQuestion compares one question definition against the submitted answer
// map and returns (correct units, total units). A missing or unmatched answer
// is incorrect, never an error: unanswered questions are the common case.
func scoreQuestion(q *Question, answers map[string]string) (correct, total int) {
	switch q.Type {
	case MultipleChoice:
		return scoreAtomic(q.ID, q.Answer, answers, nil)

	case TrueFalseNotGiven:
		return scoreAtomic(q.ID, q.Answer, answers, trueFalseDomain)

	case YesNoNotGiven:
		return scoreAtomic(q.ID, q.Answer, answers, yesNoDomain)

	case SentenceCompletion:
		for _, blank := range q.Sentences {
			total++
			if submitted, ok := answers[blank.ID]; ok && answersEqual(submitted, blank.Answer) {
				correct++
			}
		}
		return correct, total

	case MatchingInformation:
		for _, st := range q.Statements {
			total++
			if submitted, ok := answers[st.ID]; ok && answersEqual(submitted, st.AnswerParagraph) {
				correct++
			}
		}
		return correct, total

	case MatchingFeatures:
		for _, st := range q.Statements {
			total++
			if submitted, ok := answers[st.ID]; ok && answersEqual(submitted, st.AnswerFeatureID) {
				correct++
			}
		}
		return correct, total

	case MatchingHeadings:
		// Keyed by paragraph letter, not by a generated sub-id. Existing
		// client payloads depend on this, so it stays asymmetric with the
		// other composite types.
		for _, item := range q.Items {
			total++
			if submitted, ok := answers[item.Paragraph]; ok && answersEqual(submitted, item.AnswerHeadingID) {
				correct++
			}
		}
		return correct, total

	default:
		// Fail closed: an unrecognized type still occupies one denominator
		// unit and scores zero.
		return 0, 1
	}
}

func scoreAtomic(id, expected string, answers map[string]string, domain []string) (int, int) {
	submitted, ok := answers[id]
	if !ok {
		return 0, 1
	}
	if domain != nil && !inDomain(submitted, domain) {
		return 0, 1
	}
	if answersEqual(submitted, expected) {
		return 1, 1
	}
	return 0, 1
}
