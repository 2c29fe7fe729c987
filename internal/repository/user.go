// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"strings"
	"time"

	"codeberg.org/oliverandrich/alumni-api/internal/models"
	"github.com/google/uuid"
)

const userColumns = `id, email, password_hash, name, surname, phone_number, is_activated, is_admin,
	activation_link, reset_code, education, specialty, year_of_release, place, work_place,
	position_at_work, short_biography, education_and_goals, avatar, created_at, updated_at`

// UserFilter narrows ListUsers. Zero values are ignored.
type UserFilter struct {
	Name          string // case-insensitive substring
	YearOfRelease int
	Specialty     string
	Education     string
}

// CreateUser inserts a new user. ID and timestamps are assigned when empty.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := r.exec(ctx, `INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Surname, user.PhoneNumber,
		user.IsActivated, user.IsAdmin, user.ActivationLink, user.ResetCode, user.Education,
		user.Specialty, user.YearOfRelease, user.Place, user.WorkPlace, user.PositionAtWork,
		user.ShortBiography, user.EducationAndGoals, user.Avatar, user.CreatedAt, user.UpdatedAt)
	return err
}

// SaveUser writes every mutable column of user back to the database.
func (r *Repository) SaveUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	return r.execOne(ctx, `UPDATE users SET
		password_hash = ?, name = ?, surname = ?, phone_number = ?, is_activated = ?, is_admin = ?,
		activation_link = ?, reset_code = ?, education = ?, specialty = ?, year_of_release = ?,
		place = ?, work_place = ?, position_at_work = ?, short_biography = ?,
		education_and_goals = ?, avatar = ?, updated_at = ?
		WHERE id = ?`,
		user.PasswordHash, user.Name, user.Surname, user.PhoneNumber, user.IsActivated,
		user.IsAdmin, user.ActivationLink, user.ResetCode, user.Education, user.Specialty,
		user.YearOfRelease, user.Place, user.WorkPlace, user.PositionAtWork, user.ShortBiography,
		user.EducationAndGoals, user.Avatar, user.UpdatedAt, user.ID)
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.get(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.get(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = ?`, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByActivationLink retrieves the user an activation link was issued to.
func (r *Repository) GetUserByActivationLink(ctx context.Context, link string) (*models.User, error) {
	var user models.User
	if err := r.get(ctx, &user, `SELECT `+userColumns+` FROM users WHERE activation_link = ?`, link); err != nil {
		return nil, err
	}
	return &user, nil
}

// CountAdmins returns the number of admin users.
func (r *Repository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	if err := r.get(ctx, &count, `SELECT count(*) FROM users WHERE is_admin = ?`, true); err != nil {
		return 0, err
	}
	return count, nil
}

// ListUsers returns one page of non-admin users, newest first.
func (r *Repository) ListUsers(ctx context.Context, filter UserFilter, page models.PageRequest) ([]models.User, int64, error) {
	where := []string{"is_admin = ?"}
	args := []any{false}

	if filter.Name != "" {
		where = append(where, `LOWER(name) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(filter.Name))
	}
	if filter.YearOfRelease != 0 {
		where = append(where, "year_of_release = ?")
		args = append(args, filter.YearOfRelease)
	}
	if filter.Specialty != "" {
		where = append(where, "specialty = ?")
		args = append(args, filter.Specialty)
	}
	if filter.Education != "" {
		where = append(where, "education = ?")
		args = append(args, filter.Education)
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := r.get(ctx, &total, `SELECT count(*) FROM users`+clause, args...); err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := r.list(ctx, &users,
		`SELECT `+userColumns+` FROM users`+clause+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
