package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/stockroomlabs/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
)

const (
	defaultListLimit = 50
	appendBackoff    = 50 * time.Millisecond
	appendRetries    = 2
)

// EntryDTO is one audit line returned to clients.
type EntryDTO struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// Service is the audit sink for the pipeline. Record never fails the caller:
// a committed business mutation must not be unwound because its audit line
// could not be written.
type Service interface {
	Record(ctx context.Context, action string)
	List(ctx context.Context, limit int) ([]EntryDTO, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs the activity service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("activity repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Record appends an audit line, retrying transient storage failures with
// exponential backoff. The final failure is logged and swallowed.
func (s *service) Record(ctx context.Context, action string) {
	action = strings.TrimSpace(action)
	if action == "" {
		return
	}

	backoff := retry.WithMaxRetries(appendRetries, retry.NewExponential(appendBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		appendErr := s.repo.Append(ctx, &models.ActivityLog{Action: action})
		if appendErr != nil {
			return retry.RetryableError(appendErr)
		}
		return nil
	})
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "action", action), "appending activity log", err)
	}
}

// List returns recent audit lines, newest first.
func (s *service) List(ctx context.Context, limit int) ([]EntryDTO, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	entries, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing activity log")
	}

	out := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, EntryDTO{ID: entry.ID, Action: entry.Action, CreatedAt: entry.CreatedAt})
	}
	return out, nil
}
