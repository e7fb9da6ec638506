package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/config"
	"github.com/groveboard/grove-backend/internal/domain"
	"github.com/groveboard/grove-backend/internal/repository"
	"github.com/groveboard/grove-backend/pkg/markup"
)

// SubmitOutcome is what a non-fatal Submit produces: either a publish
// result, or the accumulated errors plus a fresh submit token for the
// re-rendered compose form.
type SubmitOutcome struct {
	Result *domain.PublishResult `json:"result,omitempty"`
	Errors *domain.PostErrors    `json:"errors,omitempty"`
	Token  string                `json:"token,omitempty"`
}

// Committed reports whether the submission was published.
func (o *SubmitOutcome) Committed() bool {
	return o.Result != nil
}

// Publisher validates a submission, resolves concurrency and moderation
// state, and commits message, topic, poll and attachments as one logical
// unit. Serious validation errors and preview requests never mutate
// state; permission, replay, lock and infrastructure failures return as
// Go errors.
type Publisher interface {
	Submit(ctx context.Context, actor *domain.Actor, req *domain.SubmissionRequest) (*SubmitOutcome, error)
}

type publisher struct {
	boards   repository.BoardRepository
	topics   repository.TopicRepository
	messages repository.MessageRepository
	publish  repository.PublishRepository
	polls    repository.PollRepository

	guard    *ConcurrencyGuard
	resolver *ModerationResolver
	pollB    *PollBuilder
	staging  StagingService
	tokens   TokenService
	spam     SpamGuard
	perms    Oracle
	markup   markup.Transformer
	effects  *SideEffects

	cfg config.PostingConfig
	log *zerolog.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(
	boards repository.BoardRepository,
	topics repository.TopicRepository,
	messages repository.MessageRepository,
	publishRepo repository.PublishRepository,
	polls repository.PollRepository,
	guard *ConcurrencyGuard,
	resolver *ModerationResolver,
	pollB *PollBuilder,
	staging StagingService,
	tokens TokenService,
	spam SpamGuard,
	perms Oracle,
	transformer markup.Transformer,
	effects *SideEffects,
	cfg config.PostingConfig,
	log *zerolog.Logger,
) Publisher {
	return &publisher{
		boards:   boards,
		topics:   topics,
		messages: messages,
		publish:  publishRepo,
		polls:    polls,
		guard:    guard,
		resolver: resolver,
		pollB:    pollB,
		staging:  staging,
		tokens:   tokens,
		spam:     spam,
		perms:    perms,
		markup:   transformer,
		effects:  effects,
		cfg:      cfg,
		log:      log,
	}
}

func (p *publisher) Submit(ctx context.Context, actor *domain.Actor, req *domain.SubmissionRequest) (*SubmitOutcome, error) {
	// Replay check comes first: a consumed token means this exact form
	// was already submitted, and nothing below may run.
	if err := p.tokens.Consume(ctx, actor.ID, req.Token); err != nil {
		return nil, err
	}

	board, err := p.boards.FindByID(req.BoardID)
	if err != nil {
		return nil, common.ErrBoardNotFound
	}

	var topic *domain.Topic
	var existing *domain.Message
	if req.IsEdit() {
		existing, err = p.messages.FindByID(req.MessageID)
		if err != nil {
			return nil, common.ErrMessageNotFound
		}
		topic, err = p.topics.FindByID(existing.TopicID)
		if err != nil {
			return nil, common.ErrTopicNotFound
		}
	} else if req.TopicID != 0 {
		topic, err = p.topics.FindByID(req.TopicID)
		if err != nil {
			return nil, common.ErrTopicNotFound
		}
	}

	if err := p.checkEntryPermission(actor, board, topic, existing); err != nil {
		return nil, err
	}

	// Field validation accumulates; it never short-circuits so the user
	// can fix everything in one round trip.
	errs := &domain.PostErrors{}
	subject := strings.TrimSpace(req.Subject)
	body := p.markup.Sanitize(req.Body)
	p.validateFields(subject, body, errs)
	if actor.IsGuest() {
		p.validateGuest(req, errs)
	}

	guardRes, err := p.guard.Check(actor, topic, req, errs)
	if err != nil {
		return nil, err
	}

	// Poll validation happens before the early return so poll problems
	// ride along with everything else.
	var poll *domain.Poll
	var pollChoices []domain.PollChoice
	wantPoll := req.Poll != nil && (topic == nil || !topic.HasPoll())
	if req.Poll != nil && topic != nil && topic.HasPoll() {
		// Second poll on a topic is a silent no-op.
		p.log.Debug().Int("topic_id", topic.ID).Msg("poll request ignored, topic already has one")
		wantPoll = false
	}
	if wantPoll {
		if err := p.perms.Require(actor, CapPostPoll, board.ID); err != nil {
			return nil, err
		}
		guestVote := p.perms.Can(domain.Guest(), CapVote, board.ID)
		poll, pollChoices = p.pollB.Build(req.Poll, guestVote, errs)
	}

	if errs.HasSerious() || req.Preview || guardRes.ForcePreview {
		// Back to the composer with the input preserved client-side and
		// a fresh token, since the submitted one is spent.
		token, terr := p.tokens.Issue(ctx, actor.ID)
		if terr != nil {
			return nil, terr
		}
		return &SubmitOutcome{Errors: errs, Token: token}, nil
	}

	if err := p.spam.Check(ctx, actor.ID, "post"); err != nil {
		return nil, err
	}

	stateReq := StateRequest{Lock: req.Lock, Sticky: req.Sticky, Approve: req.Approve}
	if guardRes.DropLockRequest {
		stateReq.Lock = nil
	}
	if guardRes.DropStickyRequest {
		stateReq.Sticky = nil
	}
	target, err := p.resolver.Resolve(actor, board, topic, existing, stateReq)
	if err != nil {
		return nil, err
	}

	poster := p.posterInfo(actor, req)

	var result *domain.PublishResult
	switch {
	case req.IsEdit():
		result, err = p.commitEdit(actor, board, topic, existing, req, subject, body, target)
	case topic != nil:
		result, err = p.commitReply(actor, board, topic, req, subject, body, target, poster, poll, pollChoices)
	default:
		result, err = p.commitNewTopic(actor, board, req, subject, body, target, poster, poll, pollChoices)
	}
	if err != nil {
		return nil, err
	}

	// Attachments are best-effort relative to the message: one bad file
	// warns, it never unwinds the commit.
	p.promoteAttachments(ctx, actor, req, result, errs)

	p.dispatchSideEffects(actor, board, topic, existing, req, result, target)

	result.Warnings = errs.Items()
	return &SubmitOutcome{Result: result}, nil
}

func (p *publisher) checkEntryPermission(actor *domain.Actor, board *domain.Board, topic *domain.Topic, existing *domain.Message) error {
	if existing != nil {
		if existing.AuthorID != actor.ID || actor.IsGuest() {
			return p.perms.Require(actor, CapModifyAny, board.ID)
		}
		return p.perms.Require(actor, CapModifyOwn, board.ID)
	}
	if topic != nil {
		return p.perms.Require(actor, CapPostReply, board.ID)
	}
	return p.perms.Require(actor, CapPostNew, board.ID)
}

func (p *publisher) validateFields(subject, body string, errs *domain.PostErrors) {
	if subject == "" {
		errs.AddSerious(domain.ErrKindNoSubject, nil)
	}
	if p.markup.Strip(body) == "" {
		errs.AddSerious(domain.ErrKindNoMessage, nil)
	}
	if len(body) > p.cfg.MaxMessageLength {
		errs.AddSerious(domain.ErrKindLongMessage, map[string]any{"max": p.cfg.MaxMessageLength})
	}
}

func (p *publisher) validateGuest(req *domain.SubmissionRequest, errs *domain.PostErrors) {
	name := strings.TrimSpace(req.GuestName)
	if name == "" {
		errs.AddSerious(domain.ErrKindNoGuestName, nil)
	} else {
		for _, reserved := range p.cfg.ReservedNames {
			if strings.EqualFold(name, reserved) {
				errs.AddSerious(domain.ErrKindBadGuestName, map[string]any{"name": name})
				break
			}
		}
	}
	email := strings.TrimSpace(req.GuestEmail)
	if email == "" || !strings.Contains(email, "@") {
		errs.AddSerious(domain.ErrKindBadGuestEmail, nil)
	} else {
		for _, banned := range p.cfg.BannedEmails {
			if strings.EqualFold(email, banned) {
				errs.AddSerious(domain.ErrKindBadGuestEmail, nil)
				break
			}
		}
	}
}

func (p *publisher) posterInfo(actor *domain.Actor, req *domain.SubmissionRequest) domain.PosterInfo {
	if actor.IsGuest() {
		return domain.PosterInfo{
			Name:  strings.TrimSpace(req.GuestName),
			Email: strings.TrimSpace(req.GuestEmail),
		}
	}
	return domain.PosterInfo{MemberID: actor.ID, Name: actor.Name, Email: actor.Email}
}

func (p *publisher) newMessage(board *domain.Board, req *domain.SubmissionRequest, subject, body string, approved bool, poster domain.PosterInfo) *domain.Message {
	icon := req.Icon
	if icon == "" {
		icon = "xx"
	}
	return &domain.Message{
		BoardID:        board.ID,
		AuthorID:       poster.MemberID,
		PosterName:     poster.Name,
		PosterEmail:    poster.Email,
		Subject:        subject,
		Body:           body,
		Icon:           icon,
		SmileysEnabled: req.SmileysEnabled,
		Approved:       approved,
		PostedAt:       time.Now(),
	}
}

func (p *publisher) commitNewTopic(actor *domain.Actor, board *domain.Board, req *domain.SubmissionRequest, subject, body string, target *TargetState, poster domain.PosterInfo, poll *domain.Poll, choices []domain.PollChoice) (*domain.PublishResult, error) {
	topic := &domain.Topic{
		BoardID:   board.ID,
		StarterID: poster.MemberID,
		Approved:  target.Approved,
	}
	if target.Lock != nil {
		topic.Locked = *target.Lock
	}
	if target.Sticky != nil {
		topic.Sticky = *target.Sticky
	}

	msg := p.newMessage(board, req, subject, body, target.Approved, poster)

	if err := p.publish.CreateTopic(topic, msg, poll, choices); err != nil {
		return nil, fmt.Errorf("publish new topic: %w", err)
	}

	return &domain.PublishResult{
		TopicID:   topic.ID,
		MessageID: msg.ID,
		PollID:    topic.PollID,
		Approved:  msg.Approved,
	}, nil
}

func (p *publisher) commitReply(actor *domain.Actor, board *domain.Board, topic *domain.Topic, req *domain.SubmissionRequest, subject, body string, target *TargetState, poster domain.PosterInfo, poll *domain.Poll, choices []domain.PollChoice) (*domain.PublishResult, error) {
	// Adding a poll to an existing topic happens before the message so a
	// failed poll aborts the post, per the partial-failure policy.
	pollID := topic.PollID
	if poll != nil {
		if err := p.polls.AttachToTopic(topic.ID, poll, choices); err != nil {
			return nil, fmt.Errorf("attach poll: %w", err)
		}
		pollID = poll.ID
	}

	msg := p.newMessage(board, req, subject, body, target.Approved, poster)
	edit := &domain.TopicEdit{Locked: target.Lock, Sticky: target.Sticky}

	if err := p.publish.CreateReply(topic, msg, edit); err != nil {
		return nil, fmt.Errorf("publish reply: %w", err)
	}

	return &domain.PublishResult{
		TopicID:   topic.ID,
		MessageID: msg.ID,
		PollID:    pollID,
		Approved:  msg.Approved,
	}, nil
}

func (p *publisher) commitEdit(actor *domain.Actor, board *domain.Board, topic *domain.Topic, existing *domain.Message, req *domain.SubmissionRequest, subject, body string, target *TargetState) (*domain.PublishResult, error) {
	icon := req.Icon
	if icon == "" {
		icon = existing.Icon
	}
	edit := &domain.MessageEdit{
		Subject:        &subject,
		Body:           &body,
		Icon:           &icon,
		SmileysEnabled: &req.SmileysEnabled,
	}
	if target.Approved != existing.Approved {
		approved := target.Approved
		edit.Approved = &approved
	}

	// Edits are stamped only when the actor differs from the author or
	// the grace window since posting has elapsed; an immediate typo fix
	// by the author stays unflagged.
	if edit.Changed(existing) {
		if actor.ID != existing.AuthorID || time.Since(existing.PostedAt) > p.cfg.EditGraceWindow.Std() {
			now := time.Now()
			edit.ModifiedAt = &now
			edit.ModifiedName = actor.Name
			edit.ModifiedReason = strings.TrimSpace(req.ModifyReason)
		}
	}

	topicEdit := &domain.TopicEdit{Locked: target.Lock, Sticky: target.Sticky}
	if existing.IsFirstIn(topic) && target.Approved != topic.Approved {
		approved := target.Approved
		topicEdit.Approved = &approved
	}

	if err := p.publish.UpdateMessage(existing, edit, topic.ID, topicEdit); err != nil {
		return nil, fmt.Errorf("publish edit: %w", err)
	}

	approved := existing.Approved
	if edit.Approved != nil {
		approved = *edit.Approved
	}
	return &domain.PublishResult{
		TopicID:   topic.ID,
		MessageID: existing.ID,
		PollID:    topic.PollID,
		Approved:  approved,
	}, nil
}

func (p *publisher) promoteAttachments(ctx context.Context, actor *domain.Actor, req *domain.SubmissionRequest, result *domain.PublishResult, errs *domain.PostErrors) {
	attachCtx := req.AttachContext
	if attachCtx == "" {
		return
	}
	staged, err := p.staging.List(ctx, actor.ID, attachCtx)
	if err != nil {
		p.log.Warn().Err(err).Msg("staging list failed")
		return
	}
	if len(staged) == 0 {
		return
	}
	if err := p.perms.Require(actor, CapPostAttachment, req.BoardID); err != nil {
		return
	}

	msg := &domain.Message{ID: result.MessageID, Approved: result.Approved}
	for _, att := range staged {
		if !att.Valid() {
			// Reported once as a warning, then discarded; never promoted.
			errs.AddMinor(domain.ErrKindBadAttachment, map[string]any{
				"filename": att.Filename,
				"problems": att.Errors,
			})
			if derr := p.staging.Discard(ctx, actor.ID, attachCtx, att.Key); derr != nil {
				p.log.Warn().Err(derr).Str("key", att.Key).Msg("staged file discard failed")
			}
			continue
		}
		if _, perr := p.staging.Promote(ctx, att, msg); perr != nil {
			errs.AddMinor(domain.ErrKindBadAttachment, map[string]any{"filename": att.Filename})
			p.log.Warn().Err(perr).Str("key", att.Key).Msg("staged file promotion failed")
		}
	}
}

func (p *publisher) dispatchSideEffects(actor *domain.Actor, board *domain.Board, topic *domain.Topic, existing *domain.Message, req *domain.SubmissionRequest, result *domain.PublishResult, target *TargetState) {
	if req.Notify != nil {
		p.effects.ToggleNotify(actor.ID, result.TopicID, *req.Notify)
	}

	if existing != nil && actor.ID != existing.AuthorID {
		p.effects.RecordModeration(actor.ID, "edit_message", board.ID, result.TopicID, result.MessageID, map[string]any{
			"author_id": existing.AuthorID,
			"reason":    req.ModifyReason,
		})
	}
	if target.Lock != nil && topic != nil {
		p.effects.RecordModeration(actor.ID, "lock_topic", board.ID, result.TopicID, result.MessageID, map[string]any{
			"lock": *target.Lock,
		})
	}
	if target.Sticky != nil && topic != nil {
		p.effects.RecordModeration(actor.ID, "sticky_topic", board.ID, result.TopicID, result.MessageID, map[string]any{
			"sticky": *target.Sticky,
		})
	}

	p.effects.MarkRead(actor.ID, board.ID, result.MessageID)
}
