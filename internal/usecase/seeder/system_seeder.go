package seeder

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nmorales/patrimonio-backend/internal/domain"
)

// Fixed UUIDs for system concepts so seeding stays idempotent across restarts
var (
	SYS_SALARY          = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	SYS_RENT            = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	SYS_CAR_INSTALLMENT = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

// SystemSeeder ensures the fixed system concepts exist
type SystemSeeder struct {
	repo domain.ConceptRepository
}

// NewSystemSeeder creates a new SystemSeeder instance
func NewSystemSeeder(repo domain.ConceptRepository) *SystemSeeder {
	return &SystemSeeder{
		repo: repo,
	}
}

// Seed ensures all required system concepts exist in the database.
// Existing concepts are left untouched.
func (s *SystemSeeder) Seed(ctx context.Context) error {
	systemConcepts := []*domain.Concept{
		{
			ID:     SYS_SALARY,
			Name:   "Sueldo",
			Kind:   domain.MovementIncome,
			Nature: domain.NatureFixed,
		},
		{
			ID:     SYS_RENT,
			Name:   "Alquiler",
			Kind:   domain.MovementExpense,
			Nature: domain.NatureFixed,
		},
		{
			ID:     SYS_CAR_INSTALLMENT,
			Name:   "Cuota Auto",
			Kind:   domain.MovementExpense,
			Nature: domain.NatureFixed,
		},
	}

	for _, concept := range systemConcepts {
		_, err := s.repo.GetByID(ctx, concept.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		if err := concept.Validate(); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, concept); err != nil {
			return err
		}
	}

	return nil
}
