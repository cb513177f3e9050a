package repository

import (
	"errors"

	"tinta/internal/models"

	"gorm.io/gorm"
)

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

func (r *commentRepository) Delete(id uint) error {
	// Votes go with the comment.
	if err := r.db.Where("comment_id = ?", id).Delete(&models.CommentVote{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Comment{}, id).Error
}

func (r *commentRepository) List(filter CommentFilter) ([]models.Comment, error) {
	query := r.db.Model(&models.Comment{}).Order("created_at DESC")
	if filter.PostID != nil {
		query = query.Where("post_id = ?", *filter.PostID)
	}
	if filter.Approved != nil {
		query = query.Where("approved = ?", *filter.Approved)
	}

	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) CountApprovedByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Where("user_id = ? AND approved = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) AdjustVotes(id uint, upDelta, downDelta int) error {
	updates := map[string]interface{}{}
	if upDelta != 0 {
		// GREATEST keeps the counter from going negative if the invariant ever slips.
		updates["upvotes"] = gorm.Expr("GREATEST(upvotes + ?, 0)", upDelta)
	}
	if downDelta != 0 {
		updates["downvotes"] = gorm.Expr("GREATEST(downvotes + ?, 0)", downDelta)
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Comment{}).Where("id = ?", id).Updates(updates).Error
}
