package repository

import (
	"github.com/groveboard/grove-backend/internal/domain"
	"gorm.io/gorm"
)

// BoardRepository board data access interface
type BoardRepository interface {
	FindByID(id int) (*domain.Board, error)
	FindBySlug(slug string) (*domain.Board, error)
}

type boardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{db: db}
}

func (r *boardRepository) FindByID(id int) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.Where("id_board = ?", id).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) FindBySlug(slug string) (*domain.Board, error) {
	var board domain.Board
	if err := r.db.Where("slug = ?", slug).First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}
