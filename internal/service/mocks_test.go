package service

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/domain"
)

// --- Mock BoardRepository ---

type mockBoardRepo struct {
	mock.Mock
}

func (m *mockBoardRepo) FindByID(id int) (*domain.Board, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Board), args.Error(1)
}

func (m *mockBoardRepo) FindBySlug(slug string) (*domain.Board, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Board), args.Error(1)
}

// --- Mock TopicRepository ---

type mockTopicRepo struct {
	mock.Mock
}

func (m *mockTopicRepo) FindByID(id int) (*domain.Topic, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

// --- Mock MessageRepository ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) FindByID(id int) (*domain.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMessageRepo) CountAfter(topicID, afterMsgID int, includeUnapproved bool) (int64, error) {
	args := m.Called(topicID, afterMsgID, includeUnapproved)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock PublishRepository ---

type mockPublishRepo struct {
	mock.Mock
}

func (m *mockPublishRepo) CreateTopic(topic *domain.Topic, msg *domain.Message, poll *domain.Poll, choices []domain.PollChoice) error {
	return m.Called(topic, msg, poll, choices).Error(0)
}

func (m *mockPublishRepo) CreateReply(topic *domain.Topic, msg *domain.Message, edit *domain.TopicEdit) error {
	return m.Called(topic, msg, edit).Error(0)
}

func (m *mockPublishRepo) UpdateMessage(msg *domain.Message, edit *domain.MessageEdit, topicID int, topicEdit *domain.TopicEdit) error {
	return m.Called(msg, edit, topicID, topicEdit).Error(0)
}

// --- Mock PollRepository ---

type mockPollRepo struct {
	mock.Mock
}

func (m *mockPollRepo) FindByID(id int) (*domain.Poll, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Poll), args.Error(1)
}

func (m *mockPollRepo) AttachToTopic(topicID int, poll *domain.Poll, choices []domain.PollChoice) error {
	return m.Called(topicID, poll, choices).Error(0)
}

// --- Mock AttachmentRepository ---

type mockAttachmentRepo struct {
	mock.Mock
}

func (m *mockAttachmentRepo) Create(att *domain.Attachment) error {
	return m.Called(att).Error(0)
}

func (m *mockAttachmentRepo) ListByMessage(messageID int) ([]*domain.Attachment, error) {
	args := m.Called(messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Attachment), args.Error(1)
}

// --- Mock DraftRepository ---

type mockDraftRepo struct {
	mock.Mock
}

func (m *mockDraftRepo) Save(draft *domain.Draft) error {
	return m.Called(draft).Error(0)
}

func (m *mockDraftRepo) Latest(memberID int, context string) (*domain.Draft, error) {
	args := m.Called(memberID, context)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *mockDraftRepo) List(memberID int) ([]*domain.Draft, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Draft), args.Error(1)
}

func (m *mockDraftRepo) Delete(id, memberID int) error {
	return m.Called(id, memberID).Error(0)
}

func (m *mockDraftRepo) ExistsSameContent(memberID int, context, subject, body string) (bool, error) {
	args := m.Called(memberID, context, subject, body)
	return args.Bool(0), args.Error(1)
}

// --- Mock side-effect repositories ---

type mockSubscriptionRepo struct {
	mock.Mock
}

func (m *mockSubscriptionRepo) Subscribe(memberID, topicID int) error {
	return m.Called(memberID, topicID).Error(0)
}

func (m *mockSubscriptionRepo) Unsubscribe(memberID, topicID int) error {
	return m.Called(memberID, topicID).Error(0)
}

type mockModerationLogRepo struct {
	mock.Mock
}

func (m *mockModerationLogRepo) Record(entry *domain.ModerationLogEntry) error {
	return m.Called(entry).Error(0)
}

type mockReadMarkRepo struct {
	mock.Mock
}

func (m *mockReadMarkRepo) MarkRead(memberID, boardID, upToMsg int) error {
	return m.Called(memberID, boardID, upToMsg).Error(0)
}

// --- Mock StagingService ---

type mockStaging struct {
	mock.Mock
}

func (m *mockStaging) Stage(ctx context.Context, memberID int, contextKey string, file *multipart.FileHeader) (*domain.StagedAttachment, error) {
	args := m.Called(ctx, memberID, contextKey, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StagedAttachment), args.Error(1)
}

func (m *mockStaging) List(ctx context.Context, memberID int, contextKey string) ([]*domain.StagedAttachment, error) {
	args := m.Called(ctx, memberID, contextKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StagedAttachment), args.Error(1)
}

func (m *mockStaging) Discard(ctx context.Context, memberID int, contextKey, key string) error {
	return m.Called(ctx, memberID, contextKey, key).Error(0)
}

func (m *mockStaging) DiscardAll(ctx context.Context, memberID int, contextKey string) error {
	return m.Called(ctx, memberID, contextKey).Error(0)
}

func (m *mockStaging) Promote(ctx context.Context, staged *domain.StagedAttachment, msg *domain.Message) (*domain.Attachment, error) {
	args := m.Called(ctx, staged, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attachment), args.Error(1)
}

// --- Capability stub ---

// stubOracle grants exactly the capabilities it was built with,
// regardless of actor or board.
type stubOracle struct {
	caps map[Capability]bool
	all  bool
}

func allowAll() *stubOracle {
	return &stubOracle{all: true}
}

func allow(caps ...Capability) *stubOracle {
	o := &stubOracle{caps: make(map[Capability]bool)}
	for _, c := range caps {
		o.caps[c] = true
	}
	return o
}

func (o *stubOracle) Can(actor *domain.Actor, cap Capability, boardID int) bool {
	if o.all {
		return true
	}
	return o.caps[cap]
}

func (o *stubOracle) Require(actor *domain.Actor, cap Capability, boardID int) error {
	if !o.Can(actor, cap, boardID) {
		return common.ErrPermissionDenied
	}
	return nil
}

// --- Helpers ---

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func member(id int, name string) *domain.Actor {
	return &domain.Actor{ID: id, Name: name, Email: name + "@example.com", Level: domain.LevelMember}
}

func moderator(id int, name string) *domain.Actor {
	return &domain.Actor{ID: id, Name: name, Email: name + "@example.com", Level: domain.LevelModerator}
}
