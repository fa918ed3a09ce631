package export

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/planj/planj/pkg/repetition"
	"github.com/planj/planj/pkg/schedule"
	"github.com/planj/planj/pkg/user"
)

const productId = "-//planj//schedule export//EN"

type Service interface {
	// ExportICal renders the current user's schedules inside [from, to] as
	// an iCalendar document.
	ExportICal(ctx context.Context, from, to time.Time) (string, error)
}

type ServiceImpl struct {
	schedules   schedule.Repository
	repetitions repetition.Service
}

func NewService(schedules schedule.Repository, repetitions repetition.Service) *ServiceImpl {
	return &ServiceImpl{schedules: schedules, repetitions: repetitions}
}

func (s *ServiceImpl) ExportICal(ctx context.Context, from, to time.Time) (string, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}

	views, err := s.schedules.GetViews(ctx, userId, from, to)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productId)

	now := time.Now()
	for _, view := range views {
		event := cal.AddEvent(view.Uuid)
		event.SetDtStampTime(now)
		event.SetSummary(view.Title)
		if view.Description != "" {
			event.SetDescription(view.Description)
		}
		if view.StartAt != nil {
			event.SetStartAt(*view.StartAt)
		} else {
			event.SetStartAt(view.EndAt)
		}
		event.SetEndAt(view.EndAt)
		if view.Location != nil && view.Location.End != nil {
			event.SetLocation(view.Location.End.Name)
		}
		if view.Repeated {
			rule, err := s.repetitions.Get(ctx, view.MetadataId)
			if err != nil {
				return "", err
			}
			if rule != nil {
				event.AddRrule(rule.Rule)
			}
		}
	}
	return cal.Serialize(), nil
}
