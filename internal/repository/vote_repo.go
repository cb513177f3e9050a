package repository

import (
	"errors"

	"tinta/internal/models"

	"gorm.io/gorm"
)

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) FindByIdentity(commentID uint, identity models.VoteIdentity) (*models.CommentVote, error) {
	query := r.db.Where("comment_id = ?", commentID)

	switch {
	case identity.UserID != nil:
		query = query.Where("user_id = ?", *identity.UserID)
	case identity.Email != nil:
		query = query.Where("voter_ip = ? AND voter_email = ?", identity.IP, *identity.Email)
	default:
		query = query.Where("voter_ip = ? AND voter_email IS NULL", identity.IP)
	}

	var vote models.CommentVote
	if err := query.First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

func (r *voteRepository) Create(vote *models.CommentVote) error {
	return r.db.Create(vote).Error
}

func (r *voteRepository) UpdateType(id uint, voteType models.VoteType) error {
	return r.db.Model(&models.CommentVote{}).Where("id = ?", id).Update("vote_type", voteType).Error
}

func (r *voteRepository) Delete(id uint) error {
	return r.db.Delete(&models.CommentVote{}, id).Error
}
