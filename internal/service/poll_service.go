package service

import (
	"strings"

	"github.com/groveboard/grove-backend/internal/domain"
)

// PollBuilder validates and normalizes a submitted poll into rows ready
// to persist. Persistence happens inside the publish transaction (new
// topic) or PollRepository.AttachToTopic (existing topic) so the poll is
// always created atomically with its owner.
type PollBuilder struct{}

// NewPollBuilder creates a new PollBuilder
func NewPollBuilder() *PollBuilder {
	return &PollBuilder{}
}

// Build validates the request and returns the poll with its choice rows.
// Violations land in errs as serious errors and Build returns nil.
// guestVoteAllowed comes from the permission oracle for the guest group
// on the target board.
func (b *PollBuilder) Build(req *domain.PollRequest, guestVoteAllowed bool, errs *domain.PostErrors) (*domain.Poll, []domain.PollChoice) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		errs.AddSerious(domain.ErrKindNoPollQuestion, nil)
	}

	// Blank choices are dropped, not counted.
	labels := make([]string, 0, len(req.Choices))
	for _, raw := range req.Choices {
		label := strings.TrimSpace(raw)
		if label != "" {
			labels = append(labels, label)
		}
	}

	if len(labels) < domain.PollMinChoices {
		errs.AddSerious(domain.ErrKindFewPollChoices, map[string]any{"min": domain.PollMinChoices})
	}
	if len(labels) > domain.PollMaxChoices {
		errs.AddSerious(domain.ErrKindManyPollAnswer, map[string]any{"max": domain.PollMaxChoices})
	}
	if errs.HasSerious() {
		return nil, nil
	}

	maxVotes := req.MaxVotes
	if maxVotes < 1 {
		maxVotes = 1
	}
	if maxVotes > len(labels) {
		maxVotes = len(labels)
	}

	hideResults := req.HideResults
	if hideResults < domain.HideResultsNever || hideResults > domain.HideResultsUntilExpiry {
		hideResults = domain.HideResultsNever
	}
	// Hide-until-expiry makes no sense without an expiry.
	if hideResults == domain.HideResultsUntilExpiry && req.ExpiresAt == 0 {
		hideResults = domain.HideResultsUntilVoted
	}

	poll := &domain.Poll{
		Question:    question,
		MaxVotes:    maxVotes,
		HideResults: hideResults,
		ChangeVote:  req.ChangeVote,
		GuestVote:   req.GuestVote && guestVoteAllowed,
		ExpiresAt:   req.ExpiresAt,
	}

	choices := make([]domain.PollChoice, len(labels))
	for i, label := range labels {
		choices[i] = domain.PollChoice{ChoiceNo: i + 1, Label: label}
	}

	return poll, choices
}
