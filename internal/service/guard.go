package service

import (
	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/domain"
	"github.com/groveboard/grove-backend/internal/repository"
)

// GuardResult classifies what the concurrency guard found. Minor findings
// land in the PostErrors collection; the flags tell the publisher how to
// proceed.
type GuardResult struct {
	// ForcePreview means the submission must go back through preview
	// before it can commit (new replies appeared).
	ForcePreview bool
	// DropLockRequest / DropStickyRequest mean the requested toggle raced
	// with another change and is discarded; current state wins.
	DropLockRequest   bool
	DropStickyRequest bool
}

// ConcurrencyGuard detects that a topic changed between compose and
// submit by comparing the client-held snapshot with authoritative state.
type ConcurrencyGuard struct {
	messages       repository.MessageRepository
	perms          Oracle
	warnNewReplies bool
}

// NewConcurrencyGuard creates a new ConcurrencyGuard
func NewConcurrencyGuard(messages repository.MessageRepository, perms Oracle, warnNewReplies bool) *ConcurrencyGuard {
	return &ConcurrencyGuard{messages: messages, perms: perms, warnNewReplies: warnNewReplies}
}

// Check compares the snapshot against current topic state. Minor findings
// accumulate into errs; a hard-locked topic the actor cannot moderate is
// fatal and returns common.ErrTopicLocked.
func (g *ConcurrencyGuard) Check(actor *domain.Actor, topic *domain.Topic, req *domain.SubmissionRequest, errs *domain.PostErrors) (*GuardResult, error) {
	res := &GuardResult{}

	// Brand-new topic: nothing to race against.
	if topic == nil {
		return res, nil
	}

	canModerate := g.perms.Can(actor, CapModerateBoard, topic.BoardID)

	// Hard lock is fatal for anyone who cannot moderate, regardless of
	// what else the submission asks for.
	if topic.Locked == domain.LockModerator && !canModerate {
		return nil, common.ErrTopicLocked
	}

	snap := req.Snapshot
	if snap == nil {
		return res, nil
	}

	if g.warnNewReplies && topic.LastMsgID > snap.LastMsgID {
		count, err := g.messages.CountAfter(topic.ID, snap.LastMsgID, canModerate)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			errs.AddMinor(domain.ErrKindNewReplies, map[string]any{"count": count})
			res.ForcePreview = true
		}
	}

	// A lock/sticky toggle submitted against a flag that flipped under the
	// user is dropped; the authoritative state wins. A moderator is taken
	// to be re-asserting the toggle deliberately.
	if req.Lock != nil && topic.Locked != snap.Locked {
		if topic.Locked != domain.LockNone {
			errs.AddMinor(domain.ErrKindTopicLocked, nil)
		} else {
			errs.AddMinor(domain.ErrKindTopicUnlocked, nil)
		}
		if !canModerate {
			res.DropLockRequest = true
		}
	}
	if req.Sticky != nil && topic.Sticky != snap.Sticky {
		if topic.Sticky {
			errs.AddMinor(domain.ErrKindTopicStickied, nil)
		} else {
			errs.AddMinor(domain.ErrKindTopicUnstuck, nil)
		}
		if !canModerate {
			res.DropStickyRequest = true
		}
	}

	return res, nil
}
