package service

import (
	"context"
	"fmt"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/domain"
	"github.com/groveboard/grove-backend/internal/repository"
	"github.com/groveboard/grove-backend/pkg/cache"
)

// ComposeContext selects what the compose form is for: a new topic on a
// board, a reply (optionally quoting a message), or an edit.
type ComposeContext struct {
	Actor      *domain.Actor
	BoardID    int
	TopicID    int // reply when nonzero
	MessageID  int // edit when nonzero
	QuoteMsgID int // message quoted into a reply
	Lang       string
}

// AttachmentContext returns the staging context key for this compose.
func (c *ComposeContext) AttachmentContext() string {
	if c.MessageID != 0 {
		return fmt.Sprintf("msg%d", c.MessageID)
	}
	return "post"
}

// Composer reconstructs the editable view-model for a message: existing
// body, quoted source, staged attachments, the topic snapshot and a
// fresh submit token. Rendering never mutates forum state.
type Composer interface {
	Render(ctx context.Context, cc *ComposeContext) (*domain.ComposeViewModel, error)
}

type composer struct {
	boards   repository.BoardRepository
	topics   repository.TopicRepository
	messages repository.MessageRepository
	drafts   repository.DraftRepository
	staging  StagingService
	tokens   TokenService
	perms    Oracle
	cache    cache.Service
}

// NewComposer creates a new Composer
func NewComposer(
	boards repository.BoardRepository,
	topics repository.TopicRepository,
	messages repository.MessageRepository,
	drafts repository.DraftRepository,
	staging StagingService,
	tokens TokenService,
	perms Oracle,
	cacheSvc cache.Service,
) Composer {
	return &composer{
		boards:   boards,
		topics:   topics,
		messages: messages,
		drafts:   drafts,
		staging:  staging,
		tokens:   tokens,
		perms:    perms,
		cache:    cacheSvc,
	}
}

func (c *composer) Render(ctx context.Context, cc *ComposeContext) (*domain.ComposeViewModel, error) {
	board, err := c.boards.FindByID(cc.BoardID)
	if err != nil {
		return nil, common.ErrBoardNotFound
	}

	vm := &domain.ComposeViewModel{
		BoardID:        board.ID,
		SmileysEnabled: true,
		Icon:           "xx",
		CanLock:        c.perms.Can(cc.Actor, CapLockAny, board.ID) || c.perms.Can(cc.Actor, CapLockOwn, board.ID),
		CanSticky:      c.perms.Can(cc.Actor, CapMakeSticky, board.ID),
		CanAttach:      c.perms.Can(cc.Actor, CapPostAttachment, board.ID),
		CanPoll:        c.perms.Can(cc.Actor, CapPostPoll, board.ID),
	}

	switch {
	case cc.MessageID != 0:
		if err := c.renderEdit(cc, vm); err != nil {
			return nil, err
		}
	case cc.TopicID != 0:
		if err := c.renderReply(ctx, cc, vm); err != nil {
			return nil, err
		}
	default:
		if err := c.perms.Require(cc.Actor, CapPostNew, board.ID); err != nil {
			return nil, err
		}
	}

	attachCtx := cc.AttachmentContext()
	staged, err := c.staging.List(ctx, cc.Actor.ID, attachCtx)
	if err == nil {
		vm.StagedAttachments = staged
	}

	// Files staged for a generic new post don't silently follow the user
	// into editing an existing message; surface the leftovers instead.
	if attachCtx != "post" {
		if leftovers, err := c.staging.List(ctx, cc.Actor.ID, "post"); err == nil && len(leftovers) > 0 {
			warn := &domain.PostErrors{}
			warn.AddMinor(domain.ErrKindSessionFiles, map[string]any{"count": len(leftovers)})
			vm.Warnings = append(vm.Warnings, warn.Items()...)
		}
	}

	if !cc.Actor.IsGuest() {
		if draft, err := c.drafts.Latest(cc.Actor.ID, attachCtx); err == nil && draft != nil {
			vm.Draft = draft
		}
	}

	token, err := c.tokens.Issue(ctx, cc.Actor.ID)
	if err != nil {
		return nil, err
	}
	vm.Token = token

	return vm, nil
}

func (c *composer) renderEdit(cc *ComposeContext, vm *domain.ComposeViewModel) error {
	msg, err := c.messages.FindByID(cc.MessageID)
	if err != nil {
		return common.ErrMessageNotFound
	}
	if msg.AuthorID != cc.Actor.ID || cc.Actor.IsGuest() {
		if err := c.perms.Require(cc.Actor, CapModifyAny, msg.BoardID); err != nil {
			return err
		}
	} else if err := c.perms.Require(cc.Actor, CapModifyOwn, msg.BoardID); err != nil {
		return err
	}

	topic, err := c.topics.FindByID(msg.TopicID)
	if err != nil {
		return common.ErrTopicNotFound
	}
	if topic.Locked == domain.LockModerator && !c.perms.Can(cc.Actor, CapModerateBoard, topic.BoardID) {
		return common.ErrTopicLocked
	}

	vm.TopicID = topic.ID
	vm.MessageID = msg.ID
	vm.Subject = msg.Subject
	vm.Body = msg.Body
	vm.Icon = msg.Icon
	vm.SmileysEnabled = msg.SmileysEnabled
	vm.Locked = topic.Locked
	vm.Sticky = topic.Sticky
	vm.Snapshot = topic.Snapshot()
	return nil
}

func (c *composer) renderReply(ctx context.Context, cc *ComposeContext, vm *domain.ComposeViewModel) error {
	topic, err := c.topics.FindByID(cc.TopicID)
	if err != nil {
		return common.ErrTopicNotFound
	}
	if topic.Locked == domain.LockModerator && !c.perms.Can(cc.Actor, CapModerateBoard, topic.BoardID) {
		return common.ErrTopicLocked
	}
	if err := c.perms.Require(cc.Actor, CapPostReply, topic.BoardID); err != nil {
		return err
	}

	vm.TopicID = topic.ID
	vm.Locked = topic.Locked
	vm.Sticky = topic.Sticky
	vm.Snapshot = topic.Snapshot()

	if first, err := c.messages.FindByID(topic.FirstMsgID); err == nil {
		vm.Subject = c.replyPrefix(ctx, cc.Lang) + " " + first.Subject
	}

	if cc.QuoteMsgID != 0 {
		quoted, err := c.messages.FindByID(cc.QuoteMsgID)
		if err != nil {
			return common.ErrMessageNotFound
		}
		if quoted.TopicID != topic.ID {
			return common.ErrMessageNotFound
		}
		vm.Body = fmt.Sprintf("[quote author=%s msg=%d]\n%s\n[/quote]\n", quoted.PosterName, quoted.ID, quoted.Body)
	}

	return nil
}

// replyPrefix returns the localized "Re:" prefix. Cached because it is
// looked up on every reply form; the cache is never authoritative.
func (c *composer) replyPrefix(ctx context.Context, lang string) string {
	if prefix, err := c.cache.GetReplyPrefix(ctx, lang); err == nil && prefix != "" {
		return prefix
	}
	prefix := "Re:"
	_ = c.cache.SetReplyPrefix(ctx, lang, prefix)
	return prefix
}
