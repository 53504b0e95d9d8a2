package repository

import (
	"database/sql"
	"errors"

	"github.com/goalguard/goalguard/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
)

type OrganizationRepository interface {
	Create(org *model.Organization) error
	ByID(id string) (*model.Organization, error)
	All() ([]*model.Organization, error)
	Count() (int, error)
}

type organizationRepository struct {
	db *sqlx.DB
}

func NewOrganizationRepository(db *sqlx.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(org *model.Organization) error {
	query := `INSERT INTO organizations (id, name, mission, category, verified)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, org.ID, org.Name, org.Mission, org.Category, org.Verified)
	return err
}

func (r *organizationRepository) ByID(id string) (*model.Organization, error) {
	org := &model.Organization{}
	query := `SELECT * FROM organizations WHERE id = $1`

	err := r.db.Get(org, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrOrganizationNotFound
	}

	return org, err
}

func (r *organizationRepository) All() ([]*model.Organization, error) {
	var orgs []*model.Organization
	query := `SELECT * FROM organizations ORDER BY name ASC`

	err := r.db.Select(&orgs, query)
	if err != nil {
		return nil, err
	}

	return orgs, nil
}

func (r *organizationRepository) Count() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM organizations`
	err := r.db.QueryRow(query).Scan(&count)
	return count, err
}
