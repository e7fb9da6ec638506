package domain

// Severity partitions submission problems into warnings that still allow
// the submission to proceed to preview, and blockers.
type Severity int

const (
	SeverityMinor   Severity = iota // informational, forces re-preview
	SeveritySerious                 // blocks publication
)

// Submission error kinds. Kinds are stable identifiers the client maps
// to localized messages.
const (
	ErrKindNoSubject      = "no_subject"
	ErrKindNoMessage      = "no_message"
	ErrKindLongMessage    = "long_message"
	ErrKindNoGuestName    = "no_guest_name"
	ErrKindBadGuestName   = "bad_guest_name"
	ErrKindBadGuestEmail  = "bad_guest_email"
	ErrKindNewReplies     = "new_replies"
	ErrKindTopicLocked    = "topic_locked"
	ErrKindTopicUnlocked  = "topic_unlocked"
	ErrKindTopicStickied  = "topic_stickied"
	ErrKindTopicUnstuck   = "topic_unstickied"
	ErrKindSessionFiles   = "session_files"
	ErrKindBadAttachment  = "bad_attachment"
	ErrKindNoPollQuestion = "no_poll_question"
	ErrKindFewPollChoices = "poll_few_choices"
	ErrKindManyPollAnswer = "poll_many_choices"
)

// PostError is one problem found while handling a submission.
type PostError struct {
	Kind     string         `json:"kind"`
	Severity Severity       `json:"severity"`
	Params   map[string]any `json:"params,omitempty"`
}

// PostErrors accumulates submission problems in encounter order so the
// user can fix everything in one round trip. Built once per attempt,
// never persisted.
type PostErrors struct {
	items []PostError
}

// AddMinor records a warning.
func (e *PostErrors) AddMinor(kind string, params map[string]any) {
	e.items = append(e.items, PostError{Kind: kind, Severity: SeverityMinor, Params: params})
}

// AddSerious records a blocking error.
func (e *PostErrors) AddSerious(kind string, params map[string]any) {
	e.items = append(e.items, PostError{Kind: kind, Severity: SeveritySerious, Params: params})
}

// HasAny reports whether anything was recorded.
func (e *PostErrors) HasAny() bool {
	return len(e.items) > 0
}

// HasSerious reports whether any blocking error was recorded.
func (e *PostErrors) HasSerious() bool {
	for _, it := range e.items {
		if it.Severity == SeveritySerious {
			return true
		}
	}
	return false
}

// Has reports whether an error of the given kind was recorded.
func (e *PostErrors) Has(kind string) bool {
	for _, it := range e.items {
		if it.Kind == kind {
			return true
		}
	}
	return false
}

// Items returns the recorded errors in order.
func (e *PostErrors) Items() []PostError {
	return e.items
}
