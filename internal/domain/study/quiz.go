package study

import "fmt"

// QuizState is a stage in the quiz lifecycle.
type QuizState string

const (
	QuizLoading  QuizState = "loading"
	QuizEmpty    QuizState = "empty"
	QuizActive   QuizState = "active"
	QuizFinished QuizState = "finished"
	QuizFailed   QuizState = "failed"
)

// QuizConfig controls question generation.
type QuizConfig struct {
	// QuestionCount is the maximum number of questions per quiz.
	QuestionCount int
	// MinPoolSize is the smallest pool that produces a quiz.
	MinPoolSize int
}

// DefaultQuizConfig returns five questions gated on four cards.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		QuestionCount: 5,
		MinPoolSize:   OptionCount,
	}
}

// Validate rejects settings that could reach the builder with too few cards.
func (c QuizConfig) Validate() error {
	if c.QuestionCount < 1 {
		return fmt.Errorf("%w: question count must be positive", ErrInvalidConfig)
	}
	if c.MinPoolSize < OptionCount {
		return fmt.Errorf("%w: minimum pool size must be at least %d", ErrInvalidConfig, OptionCount)
	}
	return nil
}

// AnswerResult reports the outcome of one submitted answer.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Score         int    `json:"score"`
	Finished      bool   `json:"finished"`
}

// QuizSnapshot is the read model exposed to callers.
type QuizSnapshot struct {
	State    QuizState `json:"state"`
	Title    string    `json:"title"`
	Question *Question `json:"question,omitempty"`
	Index    int       `json:"index"`
	Total    int       `json:"total"`
	Score    int       `json:"score"`
	Error    string    `json:"error,omitempty"`
}

// Quiz is the forward-only quiz state machine:
//
//	loading -> empty | active | failed
//	active  -> active (answer) | finished (last answer)
//
// A Quiz is not safe for concurrent use.
type Quiz struct {
	config QuizConfig
	rng    Source
	guard  loadGuard

	state     QuizState
	title     string
	questions []Question
	index     int
	score     int
	failure   string
}

// NewQuiz returns a quiz waiting for its first load.
func NewQuiz(config QuizConfig, rng Source) (*Quiz, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRandomSource()
	}
	return &Quiz{config: config, rng: rng, state: QuizLoading}, nil
}

// BeginLoad discards any current questions, enters the loading state and
// returns the ticket the matching fetch must present. Earlier tickets become
// stale.
func (q *Quiz) BeginLoad() Ticket {
	q.state = QuizLoading
	q.title = ""
	q.questions = nil
	q.index = 0
	q.score = 0
	q.failure = ""
	return q.guard.next()
}

// Complete applies a loaded pool. It returns false, changing nothing, when
// the ticket is stale. Pools below the minimum size end in the empty state
// without generating questions.
func (q *Quiz) Complete(t Ticket, pool Pool) bool {
	if !q.guard.isCurrent(t) || q.state != QuizLoading {
		return false
	}

	q.title = pool.Title
	if pool.Len() < q.config.MinPoolSize {
		q.state = QuizEmpty
		return true
	}

	questions, err := BuildQuestions(pool.Cards, min(q.config.QuestionCount, pool.Len()), q.rng)
	if err != nil {
		q.state = QuizFailed
		q.failure = err.Error()
		return true
	}

	q.questions = questions
	q.state = QuizActive
	return true
}

// Fail records a load failure for the ticket. Stale tickets are ignored.
func (q *Quiz) Fail(t Ticket, err error) bool {
	if !q.guard.isCurrent(t) || q.state != QuizLoading {
		return false
	}
	q.state = QuizFailed
	if err != nil {
		q.failure = err.Error()
	}
	return true
}

// SubmitAnswer scores choice against the current question and advances.
// Outside the active state it returns ErrQuizNotActive and changes nothing.
func (q *Quiz) SubmitAnswer(choice string) (AnswerResult, error) {
	if q.state != QuizActive {
		return AnswerResult{}, fmt.Errorf("%w: state is %s", ErrQuizNotActive, q.state)
	}

	current := q.questions[q.index]
	correct := current.IsCorrect(choice)
	if correct {
		q.score++
	}

	if q.index+1 < len(q.questions) {
		q.index++
	} else {
		q.state = QuizFinished
	}

	return AnswerResult{
		Correct:       correct,
		CorrectAnswer: current.CorrectAnswer,
		Score:         q.score,
		Finished:      q.state == QuizFinished,
	}, nil
}

// CanRetry reports whether a fresh load may be started by a retry.
func (q *Quiz) CanRetry() bool {
	switch q.state {
	case QuizFinished, QuizFailed, QuizEmpty:
		return true
	default:
		return false
	}
}

// State returns the current lifecycle state.
func (q *Quiz) State() QuizState {
	return q.state
}

// Questions returns a copy of the generated questions.
func (q *Quiz) Questions() []Question {
	out := make([]Question, len(q.questions))
	copy(out, q.questions)
	return out
}

// Snapshot returns the current read model. The question is only present
// while the quiz is active.
func (q *Quiz) Snapshot() QuizSnapshot {
	snap := QuizSnapshot{
		State: q.state,
		Title: q.title,
		Index: q.index,
		Total: len(q.questions),
		Score: q.score,
		Error: q.failure,
	}
	if q.state == QuizActive {
		current := q.questions[q.index]
		snap.Question = &current
	}
	return snap
}
