package services

import (
	"tinta/internal/models"
	"tinta/internal/repository"

	"github.com/rs/zerolog"
)

// NotifyService writes in-app notifications and, when SMTP is configured,
// mirrors them by email. Callers on the request path use NotifyAsync: a
// notification failure must never fail the operation that triggered it.
type NotifyService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	mail          *MailService
	log           zerolog.Logger
}

func NewNotifyService(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	mail *MailService,
	log zerolog.Logger,
) *NotifyService {
	return &NotifyService{notifications: notifications, users: users, mail: mail, log: log}
}

func (s *NotifyService) Notify(
	notifType models.NotificationType,
	title, message string,
	recipientID uint,
	link string,
	metadata map[string]string,
) error {
	n := &models.Notification{
		UserID:   recipientID,
		Type:     notifType,
		Title:    title,
		Message:  message,
		Link:     link,
		Metadata: metadata,
	}
	if err := s.notifications.Create(n); err != nil {
		return err
	}

	if s.mail != nil && s.mail.Enabled {
		if user, err := s.users.GetByID(recipientID); err == nil && user != nil {
			s.mail.SendNotification(user.Email, title, message, link)
		}
	}
	return nil
}

// NotifyAsync runs Notify in a detached goroutine, logging failures only.
func (s *NotifyService) NotifyAsync(
	notifType models.NotificationType,
	title, message string,
	recipientID uint,
	link string,
	metadata map[string]string,
) {
	go func() {
		if err := s.Notify(notifType, title, message, recipientID, link, metadata); err != nil {
			s.log.Error().Err(err).
				Uint("recipient", recipientID).
				Str("type", string(notifType)).
				Msg("failed to deliver notification")
		}
	}()
}
