// Package mocks provides in-memory repository implementations for service
// tests. They mimic the store's observable behavior (nil on not-found,
// filters, counters) without a database.
package mocks

import (
	"sort"
	"sync"
	"time"

	"tinta/internal/models"
	"tinta/internal/repository"
)

// CommentRepo is an in-memory repository.CommentRepository.
type CommentRepo struct {
	mu       sync.Mutex
	nextID   uint
	Comments map[uint]*models.Comment

	CreateErr error
}

func NewCommentRepo() *CommentRepo {
	return &CommentRepo{Comments: make(map[uint]*models.Comment)}
}

func (r *CommentRepo) Create(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	stored := *comment
	r.Comments[comment.ID] = &stored
	return nil
}

func (r *CommentRepo) GetByID(id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Comments[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *CommentRepo) Update(comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *comment
	r.Comments[comment.ID] = &stored
	return nil
}

func (r *CommentRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Comments, id)
	return nil
}

func (r *CommentRepo) List(filter repository.CommentFilter) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.Comments {
		if filter.PostID != nil && c.PostID != *filter.PostID {
			continue
		}
		if filter.Approved != nil && c.Approved != *filter.Approved {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CommentRepo) CountApprovedByUser(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.Comments {
		if c.Approved && c.UserID != nil && *c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *CommentRepo) AdjustVotes(id uint, upDelta, downDelta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.Comments[id]
	if !ok {
		return nil
	}
	c.Upvotes += upDelta
	if c.Upvotes < 0 {
		c.Upvotes = 0
	}
	c.Downvotes += downDelta
	if c.Downvotes < 0 {
		c.Downvotes = 0
	}
	return nil
}

// VoteRepo is an in-memory repository.VoteRepository.
type VoteRepo struct {
	mu     sync.Mutex
	nextID uint
	Votes  map[uint]*models.CommentVote
}

func NewVoteRepo() *VoteRepo {
	return &VoteRepo{Votes: make(map[uint]*models.CommentVote)}
}

func (r *VoteRepo) FindByIdentity(commentID uint, identity models.VoteIdentity) (*models.CommentVote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.Votes {
		if v.CommentID != commentID {
			continue
		}
		if identity.UserID != nil {
			if v.UserID != nil && *v.UserID == *identity.UserID {
				copied := *v
				return &copied, nil
			}
			continue
		}
		if v.UserID != nil || v.VoterIP == nil || *v.VoterIP != identity.IP {
			continue
		}
		if identity.Email != nil {
			if v.VoterEmail != nil && *v.VoterEmail == *identity.Email {
				copied := *v
				return &copied, nil
			}
		} else if v.VoterEmail == nil {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *VoteRepo) Create(vote *models.CommentVote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	vote.ID = r.nextID
	vote.CreatedAt = time.Now()
	stored := *vote
	r.Votes[vote.ID] = &stored
	return nil
}

func (r *VoteRepo) UpdateType(id uint, voteType models.VoteType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.Votes[id]; ok {
		v.VoteType = voteType
	}
	return nil
}

func (r *VoteRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Votes, id)
	return nil
}

// SubmissionRepo is an in-memory repository.SubmissionRepository.
type SubmissionRepo struct {
	mu          sync.Mutex
	nextID      uint
	Submissions []models.CommentSubmission
}

func NewSubmissionRepo() *SubmissionRepo {
	return &SubmissionRepo{}
}

func (r *SubmissionRepo) CountByIPSince(ip string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.Submissions {
		if s.IPAddress == ip && s.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (r *SubmissionRepo) CountByEmailSince(email string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.Submissions {
		if s.Email != nil && *s.Email == email && s.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (r *SubmissionRepo) CountByPostIPSince(postID uint, ip string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.Submissions {
		if s.PostID == postID && s.IPAddress == ip && s.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (r *SubmissionRepo) HashExistsForIPSince(hash, ip string, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Submissions {
		if s.ContentHash == hash && s.IPAddress == ip && s.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *SubmissionRepo) HashExistsForEmailSince(hash, email string, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Submissions {
		if s.ContentHash == hash && s.Email != nil && *s.Email == email && s.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *SubmissionRepo) Record(sub *models.CommentSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	sub.ID = r.nextID
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	r.Submissions = append(r.Submissions, *sub)
	return nil
}

func (r *SubmissionRepo) PruneBefore(t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.Submissions[:0]
	for _, s := range r.Submissions {
		if s.CreatedAt.After(t) {
			kept = append(kept, s)
		}
	}
	r.Submissions = kept
	return nil
}

// PostRepo is an in-memory repository.PostRepository.
type PostRepo struct {
	mu     sync.Mutex
	nextID uint
	Posts  map[uint]*models.Post
}

func NewPostRepo() *PostRepo {
	return &PostRepo{Posts: make(map[uint]*models.Post)}
}

func (r *PostRepo) Create(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	post.ID = r.nextID
	post.CreatedAt = time.Now()
	stored := *post
	r.Posts[post.ID] = &stored
	return nil
}

func (r *PostRepo) GetByID(id uint) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Posts[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *PostRepo) GetBySlug(slug string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Posts {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *PostRepo) Update(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *post
	r.Posts[post.ID] = &stored
	return nil
}

func (r *PostRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Posts, id)
	return nil
}

func (r *PostRepo) List(publishedOnly bool) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, p := range r.Posts {
		if publishedOnly && !p.Published {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AgentRepo is an in-memory repository.AgentRepository.
type AgentRepo struct {
	mu     sync.Mutex
	nextID uint
	Agents map[uint]*models.AIAgent
}

func NewAgentRepo() *AgentRepo {
	return &AgentRepo{Agents: make(map[uint]*models.AIAgent)}
}

func (r *AgentRepo) Create(agent *models.AIAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	agent.ID = r.nextID
	stored := *agent
	r.Agents[agent.ID] = &stored
	return nil
}

func (r *AgentRepo) GetByID(id uint) (*models.AIAgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.Agents[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *AgentRepo) Update(agent *models.AIAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *agent
	r.Agents[agent.ID] = &stored
	return nil
}

func (r *AgentRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Agents, id)
	return nil
}

func (r *AgentRepo) List(enabledOnly bool) ([]models.AIAgent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AIAgent
	for _, a := range r.Agents {
		if enabledOnly && !a.Enabled {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ExecutionRepo is an in-memory repository.ExecutionRepository.
type ExecutionRepo struct {
	mu         sync.Mutex
	nextID     uint
	Executions []models.AIExecution

	CreateErr error
}

func NewExecutionRepo() *ExecutionRepo {
	return &ExecutionRepo{}
}

func (r *ExecutionRepo) Create(exec *models.AIExecution) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.nextID++
	exec.ID = r.nextID
	exec.CreatedAt = time.Now()
	r.Executions = append(r.Executions, *exec)
	return nil
}

func (r *ExecutionRepo) ListByAgent(agentID uint, limit int) ([]models.AIExecution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AIExecution
	for i := len(r.Executions) - 1; i >= 0; i-- {
		if r.Executions[i].AgentID == agentID {
			out = append(out, r.Executions[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// UserRepo is an in-memory repository.UserRepository.
type UserRepo struct {
	mu     sync.Mutex
	nextID uint
	Users  map[uint]*models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{Users: make(map[uint]*models.User)}
}

func (r *UserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.Users[user.ID] = &stored
	return nil
}

func (r *UserRepo) GetByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *UserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// NotificationRepo is an in-memory repository.NotificationRepository.
type NotificationRepo struct {
	mu            sync.Mutex
	nextID        uint
	Notifications []models.Notification
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{}
}

func (r *NotificationRepo) Create(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	r.Notifications = append(r.Notifications, *n)
	return nil
}

func (r *NotificationRepo) ListByUser(userID uint, limit int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for i := len(r.Notifications) - 1; i >= 0; i-- {
		if r.Notifications[i].UserID == userID {
			out = append(out, r.Notifications[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *NotificationRepo) MarkRead(id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Notifications {
		if r.Notifications[i].ID == id && r.Notifications[i].UserID == userID {
			r.Notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Notifications {
		if r.Notifications[i].UserID == userID {
			r.Notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *NotificationRepo) Delete(id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Notifications {
		if r.Notifications[i].ID == id && r.Notifications[i].UserID == userID {
			r.Notifications = append(r.Notifications[:i], r.Notifications[i+1:]...)
			return nil
		}
	}
	return nil
}
