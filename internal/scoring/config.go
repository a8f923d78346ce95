package scoring

import (
	"encoding/json"
	"fmt"
)

// ConfigVersion is the assignment config format this scorer understands.
// A config carrying any other version is rejected up front rather than
// scored with a guessed strategy.
const ConfigVersion = 1

type QuestionType string

const (
	MultipleChoice      QuestionType = "multiple_choice"
	TrueFalseNotGiven   QuestionType = "true_false_not_given"
	YesNoNotGiven       QuestionType = "yes_no_not_given"
	SentenceCompletion  QuestionType = "sentence_completion"
	MatchingInformation QuestionType = "matching_information"
	MatchingHeadings    QuestionType = "matching_headings"
	MatchingFeatures    QuestionType = "matching_features"
)

// AssignmentConfig is the versioned, immutable test definition attached to an
// assignment revision.
type AssignmentConfig struct {
	Version  int           `json:"version"`
	Timing   TimingConfig  `json:"timing"`
	Attempts AttemptConfig `json:"attempts"`
	Sections []Section     `json:"sections"`
}

type TimingConfig struct {
	Enabled         bool `json:"enabled"`
	DurationMinutes int  `json:"durationMinutes"`
	Enforce         bool `json:"enforce"`
	AutoSubmit      bool `json:"autoSubmit"`
	RejectLateStart bool `json:"rejectLateStart"`

	StartAt *string `json:"startAt,omitempty"`
	EndAt   *string `json:"endAt,omitempty"`
}

type AttemptConfig struct {
	// MaxAttempts nil means unlimited.
	MaxAttempts *int `json:"maxAttempts"`
}

type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question is the discriminated question definition. Which of the answer
// fields is populated depends on Type; unknown types still occupy one unit of
// the scoring denominator.
type Question struct {
	ID     string       `json:"id"`
	Type   QuestionType `json:"type"`
	Prompt string       `json:"prompt"`

	// multiple_choice
	Options []string `json:"options,omitempty"`
	// multiple_choice, true_false_not_given, yes_no_not_given
	Answer string `json:"answer,omitempty"`
	// sentence_completion
	Sentences []SentenceBlank `json:"sentences,omitempty"`
	// matching_information, matching_features
	Statements []Statement `json:"statements,omitempty"`
	// matching_headings
	Items []HeadingItem `json:"items,omitempty"`
}

type SentenceBlank struct {
	ID     string `json:"id"`
	Answer string `json:"answer"`
}

type Statement struct {
	ID              string `json:"id"`
	AnswerParagraph string `json:"answerParagraph,omitempty"`
	AnswerFeatureID string `json:"answerFeatureId,omitempty"`
}

type HeadingItem struct {
	Paragraph       string `json:"paragraph"`
	AnswerHeadingID string `json:"answerHeadingId"`
}

// SubmissionPayload is the student's answer sheet. Answers is a flat
// association list; questionId is a question id, a sub-item id such as
// "q3-1", or the paragraph letter for matching_headings.
type SubmissionPayload struct {
	Version   int      `json:"version"`
	StartedAt *string  `json:"startedAt,omitempty"`
	Answers   []Answer `json:"answers"`
}

type Answer struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

// ParseConfig decodes and checks a raw jsonb assignment config. A config the
// scorer cannot interpret at all fails here, never with a partial score.
func ParseConfig(raw []byte) (*AssignmentConfig, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("assignment config: %w", ErrEmptyConfig)
	}

	var cfg AssignmentConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("assignment config: %w", err)
	}

	if cfg.Version != ConfigVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, cfg.Version, ConfigVersion)
	}
	if len(cfg.Sections) == 0 {
		return nil, fmt.Errorf("assignment config: %w", ErrMissingSections)
	}

	return &cfg, nil
}

// ParsePayload decodes a raw jsonb submission payload.
func ParsePayload(raw []byte) (*SubmissionPayload, error) {
	var payload SubmissionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("submission payload: %w", err)
	}
	return &payload, nil
}

// TotalUnits is the scoring denominator for a config: one unit per atomic
// question plus one per sub-item of a composite question, across all
// sections. It is independent of what was actually answered.
func (c *AssignmentConfig) TotalUnits() int {
	total := 0
	for _, section := range c.Sections {
		for i := range section.Questions {
			total += questionUnits(&section.Questions[i])
		}
	}
	return total
}

func questionUnits(q *Question) int {
	switch q.Type {
	case SentenceCompletion:
		return len(q.Sentences)
	case MatchingInformation, MatchingFeatures:
		return len(q.Statements)
	case MatchingHeadings:
		return len(q.Items)
	default:
		// Atomic types and anything unrecognized count as a single unit so
		// totals stay comparable as new types roll out.
		return 1
	}
}
