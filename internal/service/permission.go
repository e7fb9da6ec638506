package service

import (
	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/domain"
)

// Capability is a named permission checked against a board scope.
type Capability string

const (
	CapPostNew        Capability = "post_new"         // start topics
	CapPostReply      Capability = "post_reply"       // reply to topics
	CapPostUnapproved Capability = "post_unapproved"  // post into the moderation queue
	CapModifyOwn      Capability = "modify_own"       // edit own messages
	CapModifyAny      Capability = "modify_any"       // edit anyone's messages
	CapApprovePosts   Capability = "approve_posts"    // flip approval flags
	CapModerateBoard  Capability = "moderate_board"   // bypass locks, see unapproved
	CapLockAny        Capability = "lock_any"         // hard-lock any topic
	CapLockOwn        Capability = "lock_own"         // self-lock own topics
	CapMakeSticky     Capability = "make_sticky"      // pin topics
	CapPostPoll       Capability = "post_poll"        // attach polls
	CapPostAttachment Capability = "post_attachment"  // upload attachments
	CapVote           Capability = "poll_vote"        // vote in polls
)

// Oracle answers capability questions. The pipeline treats it as an
// external boolean oracle and never reasons about roles directly.
type Oracle interface {
	Can(actor *domain.Actor, cap Capability, boardID int) bool
	// Require returns common.ErrPermissionDenied when the capability is missing.
	Require(actor *domain.Actor, cap Capability, boardID int) error
}

// LevelOracle grants capabilities from the member level claim. Boards all
// share one level scheme; a per-board permission table can replace this
// without touching the pipeline.
type LevelOracle struct {
	// GuestsCanPost lets unauthenticated visitors post with name/email.
	GuestsCanPost bool
	// GuestsCanVote feeds the poll guest-vote gate.
	GuestsCanVote bool
}

// NewLevelOracle creates the default level-based oracle.
func NewLevelOracle(guestsCanPost, guestsCanVote bool) *LevelOracle {
	return &LevelOracle{GuestsCanPost: guestsCanPost, GuestsCanVote: guestsCanVote}
}

func (o *LevelOracle) Can(actor *domain.Actor, cap Capability, boardID int) bool {
	if actor == nil {
		return false
	}
	switch cap {
	case CapPostNew, CapPostReply:
		if actor.IsGuest() {
			return o.GuestsCanPost
		}
		return actor.Level >= domain.LevelMember
	case CapPostUnapproved:
		return o.Can(actor, CapPostNew, boardID)
	case CapModifyOwn, CapLockOwn:
		return !actor.IsGuest()
	case CapPostPoll, CapPostAttachment:
		return actor.Level >= domain.LevelMember
	case CapVote:
		if actor.IsGuest() {
			return o.GuestsCanVote
		}
		return actor.Level >= domain.LevelMember
	case CapModifyAny, CapApprovePosts, CapModerateBoard, CapLockAny, CapMakeSticky:
		return actor.Level >= domain.LevelModerator
	default:
		return false
	}
}

func (o *LevelOracle) Require(actor *domain.Actor, cap Capability, boardID int) error {
	if !o.Can(actor, cap, boardID) {
		return common.ErrPermissionDenied
	}
	return nil
}
