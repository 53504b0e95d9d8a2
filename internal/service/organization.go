package service

import (
	"fmt"
	"log/slog"

	"github.com/goalguard/goalguard/internal/model"
	"github.com/goalguard/goalguard/internal/repository"
	"github.com/google/uuid"
)

type OrganizationService struct {
	repo repository.OrganizationRepository
}

func NewOrganizationService(repo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{repo: repo}
}

func (s *OrganizationService) All() ([]*model.Organization, error) {
	return s.repo.All()
}

func (s *OrganizationService) ByID(id string) (*model.Organization, error) {
	return s.repo.ByID(id)
}

// Seed inserts the default charity listing on first boot. A non-empty
// table short-circuits, so restarts never duplicate rows.
func (s *OrganizationService) Seed() error {
	count, err := s.repo.Count()
	if err != nil {
		return fmt.Errorf("failed to count organizations: %w", err)
	}
	if count > 0 {
		return nil
	}

	orgs := []*model.Organization{
		{
			Name:     "Clean Water Initiative",
			Mission:  "Providing safe drinking water to communities in need across 45 countries",
			Category: "Water & Sanitation",
		},
		{
			Name:     "Wildlife Conservation Fund",
			Mission:  "Protecting endangered species and preserving natural habitats worldwide",
			Category: "Environment",
		},
		{
			Name:     "Education For All",
			Mission:  "Building schools and providing quality education to underserved communities",
			Category: "Education",
		},
		{
			Name:     "Global Health Alliance",
			Mission:  "Delivering medical care and disease prevention programs in developing nations",
			Category: "Healthcare",
		},
		{
			Name:     "Ocean Protection Society",
			Mission:  "Combating ocean pollution and protecting marine ecosystems",
			Category: "Environment",
		},
		{
			Name:     "Children's Literacy Project",
			Mission:  "Promoting reading skills and access to books for children in poverty",
			Category: "Education",
		},
	}

	for _, org := range orgs {
		org.ID = uuid.New().String()
		org.Verified = true
		err = s.repo.Create(org)
		if err != nil {
			return fmt.Errorf("failed to seed organization %q: %w", org.Name, err)
		}
	}

	slog.Info("seeded default organizations", "count", len(orgs))
	return nil
}
