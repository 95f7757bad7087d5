package notifications

import (
	"context"
	"errors"
	"strings"
)

const defaultListLimit = 20

var ErrEmptyMessage = errors.New("notifications: empty message")

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Notify records a message for a user. Called by background jobs as
// well as request handlers.
func (s *Service) Notify(ctx context.Context, userID int64, kind, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}
	n := &Notification{UserID: userID, Kind: kind, Message: message}
	return s.repo.Create(ctx, n)
}

func (s *Service) Recent(ctx context.Context, userID int64) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID, defaultListLimit)
}

func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	return s.repo.MarkRead(ctx, userID, id)
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}
