package repository

import (
	"time"

	"tinta/internal/models"

	"gorm.io/gorm"
)

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) CountByIPSince(ip string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommentSubmission{}).
		Where("ip_address = ? AND created_at >= ?", ip, since).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountByEmailSince(email string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommentSubmission{}).
		Where("email = ? AND created_at >= ?", email, since).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountByPostIPSince(postID uint, ip string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommentSubmission{}).
		Where("post_id = ? AND ip_address = ? AND created_at >= ?", postID, ip, since).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) HashExistsForIPSince(hash, ip string, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommentSubmission{}).
		Where("content_hash = ? AND ip_address = ? AND created_at >= ?", hash, ip, since).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *submissionRepository) HashExistsForEmailSince(hash, email string, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommentSubmission{}).
		Where("content_hash = ? AND email = ? AND created_at >= ?", hash, email, since).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *submissionRepository) Record(sub *models.CommentSubmission) error {
	return r.db.Create(sub).Error
}

func (r *submissionRepository) PruneBefore(t time.Time) error {
	return r.db.Where("created_at < ?", t).Delete(&models.CommentSubmission{}).Error
}
