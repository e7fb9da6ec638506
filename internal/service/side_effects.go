package service

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/groveboard/grove-backend/internal/domain"
	"github.com/groveboard/grove-backend/internal/repository"
)

// SideEffects dispatches the fire-and-forget follow-ups of a successful
// publication: subscription toggles, moderation log entries and read
// bookkeeping. Failures are logged, never surfaced to the publisher.
type SideEffects struct {
	subs  repository.SubscriptionRepository
	mlog  repository.ModerationLogRepository
	reads repository.ReadMarkRepository
	log   *zerolog.Logger
}

// NewSideEffects creates a new SideEffects dispatcher
func NewSideEffects(subs repository.SubscriptionRepository, mlog repository.ModerationLogRepository, reads repository.ReadMarkRepository, log *zerolog.Logger) *SideEffects {
	return &SideEffects{subs: subs, mlog: mlog, reads: reads, log: log}
}

// ToggleNotify subscribes or unsubscribes the poster to the topic.
func (s *SideEffects) ToggleNotify(memberID, topicID int, notify bool) {
	if memberID == 0 {
		return
	}
	var err error
	if notify {
		err = s.subs.Subscribe(memberID, topicID)
	} else {
		err = s.subs.Unsubscribe(memberID, topicID)
	}
	if err != nil {
		s.log.Warn().Err(err).Int("member_id", memberID).Int("topic_id", topicID).
			Msg("notify toggle failed")
	}
}

// RecordModeration writes a moderation log entry.
func (s *SideEffects) RecordModeration(actorID int, action string, boardID, topicID, messageID int, details map[string]any) {
	detailJSON, _ := json.Marshal(details)
	entry := &domain.ModerationLogEntry{
		ActorID:   actorID,
		Action:    action,
		BoardID:   boardID,
		TopicID:   topicID,
		MessageID: messageID,
		Details:   string(detailJSON),
	}
	if err := s.mlog.Record(entry); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("moderation log write failed")
	}
}

// MarkRead advances the poster's read pointer past their own message.
func (s *SideEffects) MarkRead(memberID, boardID, upToMsg int) {
	if memberID == 0 {
		return
	}
	if err := s.reads.MarkRead(memberID, boardID, upToMsg); err != nil {
		s.log.Warn().Err(err).Int("member_id", memberID).Msg("read mark failed")
	}
}
