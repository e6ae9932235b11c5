package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/banguela/school-admin/internal/core/domain"
	"github.com/banguela/school-admin/internal/core/ports"
)

// StudentService implements student registration, listing and the dashboard
// aggregates derived from the record store.
type StudentService struct {
	repo   ports.StudentRepository
	events ports.EventPublisher
}

func NewStudentService(repo ports.StudentRepository, events ports.EventPublisher) *StudentService {
	return &StudentService{repo: repo, events: events}
}

func (s *StudentService) Register(ctx context.Context, name string, scoreA, scoreB float64) (domain.Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Student{}, domain.WrapError(domain.ErrValidation, "register student", fmt.Errorf("name must not be empty"))
	}
	for _, score := range []float64{scoreA, scoreB} {
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return domain.Student{}, domain.WrapError(domain.ErrValidation, "register student", fmt.Errorf("scores must be finite numbers"))
		}
	}

	student, err := s.repo.Add(ctx, name, scoreA, scoreB)
	if err != nil {
		return domain.Student{}, err
	}

	if s.events != nil {
		if err := s.events.PublishStudentRegistered(ctx, student); err != nil {
			slog.Warn("audit_publish_failed", "event", "student.registered", "student_id", student.ID, "error", err)
		}
	}
	return student, nil
}

func (s *StudentService) List(ctx context.Context) ([]domain.Student, error) {
	return s.repo.ListAll(ctx)
}

func (s *StudentService) Statistics(ctx context.Context) (domain.ClassStatistics, error) {
	students, err := s.repo.ListAll(ctx)
	if err != nil {
		return domain.ClassStatistics{}, err
	}
	return domain.StatisticsFor(students), nil
}
