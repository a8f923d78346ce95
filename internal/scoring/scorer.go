package scoring

import "errors"

var (
	ErrEmptyConfig        = errors.New("config is empty")
	ErrMissingSections    = errors.New("config has no sections")
	ErrUnsupportedVersion = errors.New("unsupported config version")
)

// ScoreInput carries everything the orchestrator needs. Both halves arrive
// pre-parsed; the caller decides where the bytes came from.
type ScoreInput struct {
	AssignmentType string
	Config         *AssignmentConfig
	Payload        *SubmissionPayload
}

// ScoreResult is the full outcome of scoring one submission.
type ScoreResult struct {
	RawScore     float64 `json:"raw_score"`
	CorrectCount int     `json:"correct_count"`
	TotalCount   int     `json:"total_count"`
	Band         float64 `json:"band"`
	FinalScore   float64 `json:"final_score"`
}

// Score walks the config section by section, question by question, and
// aggregates per-unit correctness into a band. It is a pure function: no
// I/O, and identical input always yields an identical result, which is what
// lets concurrent grading resolve races with a plain upsert.
//
// The band formula is rawScore / 2. That is the contract the existing test
// suites pin; it is not taken from any published band-conversion table.
func Score(input ScoreInput) (*ScoreResult, error) {
	if input.Config == nil {
		return nil, ErrEmptyConfig
	}
	if len(input.Config.Sections) == 0 {
		return nil, ErrMissingSections
	}
	if input.Config.Version != ConfigVersion {
		return nil, ErrUnsupportedVersion
	}

	answers := buildAnswerMap(input.Payload)

	correctCount := 0
	totalCount := 0
	for _, section := range input.Config.Sections {
		for i := range section.Questions {
			correct, total := scoreQuestion(&section.Questions[i], answers)
			correctCount += correct
			totalCount += total
		}
	}

	rawScore := float64(correctCount)
	band := rawScore / 2

	return &ScoreResult{
		RawScore:     rawScore,
		CorrectCount: correctCount,
		TotalCount:   totalCount,
		Band:         band,
		FinalScore:   band,
	}, nil
}

// buildAnswerMap flattens the submitted association list into a lookup map.
// Duplicate questionIds resolve last-write-wins.
func buildAnswerMap(payload *SubmissionPayload) map[string]string {
	if payload == nil {
		return map[string]string{}
	}
	answers := make(map[string]string, len(payload.Answers))
	for _, a := range payload.Answers {
		answers[a.QuestionID] = a.Value
	}
	return answers
}
