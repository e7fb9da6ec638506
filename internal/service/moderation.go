package service

import (
	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/domain"
)

// StateRequest is what the submission asked for. Nil = no change.
type StateRequest struct {
	Lock    *int
	Sticky  *bool
	Approve *bool
}

// TargetState is the resolved approval/lock/sticky outcome the publisher
// commits. Nil pointers mean "leave the stored value alone".
type TargetState struct {
	Approved bool
	Lock     *int
	Sticky   *bool
}

// ModerationResolver computes target approval, lock and sticky states
// from the actor's capabilities, current state and the request. It is a
// pure function of its inputs and runs before any database mutation.
type ModerationResolver struct {
	perms Oracle
}

// NewModerationResolver creates a new ModerationResolver
func NewModerationResolver(perms Oracle) *ModerationResolver {
	return &ModerationResolver{perms: perms}
}

// Resolve computes the target state. topic is nil for a brand-new topic;
// existing is nil unless the submission edits a message. A request the
// actor may not make is dropped, never escalated; the one fatal case is
// posting on a post-moderated board with no posting capability at all.
func (r *ModerationResolver) Resolve(actor *domain.Actor, board *domain.Board, topic *domain.Topic, existing *domain.Message, req StateRequest) (*TargetState, error) {
	target := &TargetState{}

	approved, err := r.resolveApproval(actor, board, existing, req)
	if err != nil {
		return nil, err
	}
	target.Approved = approved
	target.Lock = r.resolveLock(actor, board, topic, req)
	target.Sticky = r.resolveSticky(actor, board, topic, req)

	return target, nil
}

func (r *ModerationResolver) resolveApproval(actor *domain.Actor, board *domain.Board, existing *domain.Message, req StateRequest) (bool, error) {
	if existing != nil {
		// Edits preserve the stored flag unless an approver explicitly
		// flips it.
		if req.Approve != nil && r.perms.Can(actor, CapApprovePosts, board.ID) {
			return *req.Approve, nil
		}
		return existing.Approved, nil
	}

	if !board.PostModeration {
		return true, nil
	}
	// Post-moderation: approvers publish directly, everyone else with the
	// unapproved-post capability lands in the queue.
	if r.perms.Can(actor, CapApprovePosts, board.ID) {
		return true, nil
	}
	if r.perms.Can(actor, CapPostUnapproved, board.ID) {
		return false, nil
	}
	return false, common.ErrPermissionDenied
}

func (r *ModerationResolver) resolveLock(actor *domain.Actor, board *domain.Board, topic *domain.Topic, req StateRequest) *int {
	if req.Lock == nil {
		return nil
	}

	current := domain.LockNone
	starterID := 0
	if topic != nil {
		current = topic.Locked
		starterID = topic.StarterID
	}

	if r.perms.Can(actor, CapLockAny, board.ID) {
		// Moderators toggle the hard lock, including overriding an
		// existing one. Whatever nonzero value the client sent means
		// "lock".
		target := domain.LockNone
		if *req.Lock != domain.LockNone {
			target = domain.LockModerator
		}
		if target == current {
			return nil
		}
		return &target
	}

	if r.perms.Can(actor, CapLockOwn, board.ID) {
		// Self-lock only on own topics (a new topic is own by
		// definition), and a moderator lock is never touched.
		if topic != nil && starterID != actor.ID {
			return nil
		}
		if current == domain.LockModerator {
			return nil
		}
		// Clamp: a raw hard-lock value from a non-moderator becomes a
		// self-lock, never a moderator lock.
		target := domain.LockNone
		if *req.Lock != domain.LockNone {
			target = domain.LockSelf
		}
		if target == current {
			return nil
		}
		return &target
	}

	// No lock capability: the request is silently dropped.
	return nil
}

func (r *ModerationResolver) resolveSticky(actor *domain.Actor, board *domain.Board, topic *domain.Topic, req StateRequest) *bool {
	if req.Sticky == nil {
		return nil
	}
	if !r.perms.Can(actor, CapMakeSticky, board.ID) {
		return nil
	}
	if topic != nil && topic.Sticky == *req.Sticky {
		return nil
	}
	target := *req.Sticky
	return &target
}
