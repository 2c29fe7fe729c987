// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"github.com/google/uuid"
)

const vacancyColumns = `id, company_name, company_logo, salary, requirements, position, contacts,
	created_at, last_update, updated_by`

// CreateVacancy inserts a vacancy.
func (r *Repository) CreateVacancy(ctx context.Context, v *models.Vacancy) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	if v.UpdatedBy == "" {
		v.UpdatedBy = models.NotUpdatedYet
	}
	_, err := r.exec(ctx, `INSERT INTO vacancies (`+vacancyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.CompanyName, v.CompanyLogo, v.Salary, v.Requirements, v.Position, v.Contacts,
		v.CreatedAt, v.LastUpdate, v.UpdatedBy)
	return err
}

// GetVacancy retrieves a vacancy by ID.
func (r *Repository) GetVacancy(ctx context.Context, id string) (*models.Vacancy, error) {
	var v models.Vacancy
	if err := r.get(ctx, &v, `SELECT `+vacancyColumns+` FROM vacancies WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateVacancy writes the editable columns of v.
func (r *Repository) UpdateVacancy(ctx context.Context, v *models.Vacancy) error {
	return r.execOne(ctx, `UPDATE vacancies SET company_name = ?, company_logo = ?, salary = ?,
		requirements = ?, position = ?, contacts = ?, last_update = ?, updated_by = ? WHERE id = ?`,
		v.CompanyName, v.CompanyLogo, v.Salary, v.Requirements, v.Position, v.Contacts,
		v.LastUpdate, v.UpdatedBy, v.ID)
}

// DeleteVacancy deletes a vacancy by ID.
func (r *Repository) DeleteVacancy(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM vacancies WHERE id = ?`, id)
}

// ListVacancies returns one page of vacancies, newest first.
func (r *Repository) ListVacancies(ctx context.Context, page models.PageRequest) ([]models.Vacancy, int64, error) {
	var total int64
	if err := r.get(ctx, &total, `SELECT count(*) FROM vacancies`); err != nil {
		return nil, 0, err
	}

	var items []models.Vacancy
	if err := r.list(ctx, &items, `SELECT `+vacancyColumns+` FROM vacancies ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		page.Limit, page.Offset()); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
