package service

import (
	"strings"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/domain"
	"github.com/groveboard/grove-backend/internal/repository"
)

// DraftService autosaves compose sessions for members. Guests have no
// drafts; identical consecutive saves are collapsed.
type DraftService interface {
	Save(memberID int, contextKey, subject, body string) (*domain.Draft, error)
	List(memberID int) ([]*domain.Draft, error)
	Delete(id, memberID int) error
}

type draftService struct {
	drafts repository.DraftRepository
}

// NewDraftService creates a new DraftService
func NewDraftService(drafts repository.DraftRepository) DraftService {
	return &draftService{drafts: drafts}
}

func (s *draftService) Save(memberID int, contextKey, subject, body string) (*domain.Draft, error) {
	if memberID == 0 {
		return nil, common.ErrUnauthorized
	}
	subject = strings.TrimSpace(subject)
	if subject == "" && strings.TrimSpace(body) == "" {
		return nil, common.ErrInvalidInput
	}

	// Identical content resaved by the autosave timer is a no-op.
	same, err := s.drafts.ExistsSameContent(memberID, contextKey, subject, body)
	if err != nil {
		return nil, err
	}
	if same {
		return nil, nil
	}

	draft := &domain.Draft{
		MemberID: memberID,
		Context:  contextKey,
		Subject:  subject,
		Body:     body,
	}
	if err := s.drafts.Save(draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *draftService) List(memberID int) ([]*domain.Draft, error) {
	if memberID == 0 {
		return nil, common.ErrUnauthorized
	}
	return s.drafts.List(memberID)
}

func (s *draftService) Delete(id, memberID int) error {
	if memberID == 0 {
		return common.ErrUnauthorized
	}
	return s.drafts.Delete(id, memberID)
}
