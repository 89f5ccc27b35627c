package profile

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// WriteRepository handles all state-mutating operations for profiles.
// It operates exclusively against the PostgreSQL write store (source of truth).
type WriteRepository struct {
	db *sql.DB
}

func NewWriteRepository(db *sql.DB) *WriteRepository {
	return &WriteRepository{db: db}
}

func (r *WriteRepository) Create(profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, username, email, password_hash,
			avatar_url, bio, location, phone, role, joined_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(query,
		profile.ID, profile.FullName, profile.Username, profile.Email, profile.PasswordHash,
		nullString(profile.AvatarURL), nullString(profile.Bio), nullString(profile.Location),
		nullString(profile.Phone), profile.Role, profile.JoinedAt, profile.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return fmt.Errorf("email or username already exists")
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID fetches the full write model (including PasswordHash) for internal operations.
func (r *WriteRepository) GetByID(id string) (*models.Profile, error) {
	return r.getBy("id", id)
}

// GetByEmail fetches a profile by email for login.
func (r *WriteRepository) GetByEmail(email string) (*models.Profile, error) {
	return r.getBy("email", email)
}

func (r *WriteRepository) getBy(column, value string) (*models.Profile, error) {
	query := fmt.Sprintf(`
		SELECT id, full_name, username, email, password_hash,
		       avatar_url, bio, location, phone, role, joined_at, updated_at
		FROM profiles
		WHERE %s = $1 AND deleted_at IS NULL
	`, column)

	var p models.Profile
	var avatar, bio, location, phone sql.NullString

	err := r.db.QueryRow(query, value).Scan(
		&p.ID, &p.FullName, &p.Username, &p.Email, &p.PasswordHash,
		&avatar, &bio, &location, &phone, &p.Role, &p.JoinedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.AvatarURL = avatar.String
	p.Bio = bio.String
	p.Location = location.String
	p.Phone = phone.String
	return &p, nil
}

func (r *WriteRepository) Update(profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $2, avatar_url = $3, bio = $4, location = $5, phone = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.Exec(query, profile.ID, profile.FullName,
		nullString(profile.AvatarURL), nullString(profile.Bio),
		nullString(profile.Location), nullString(profile.Phone), profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

func (r *WriteRepository) Delete(id string) error {
	result, err := r.db.Exec(
		`UPDATE profiles SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

// ListAll returns every live profile; used by the admin console.
func (r *WriteRepository) ListAll() ([]models.Profile, error) {
	query := `
		SELECT id, full_name, username, email, password_hash,
		       avatar_url, bio, location, phone, role, joined_at, updated_at
		FROM profiles
		WHERE deleted_at IS NULL
		ORDER BY joined_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		var avatar, bio, location, phone sql.NullString
		if err := rows.Scan(
			&p.ID, &p.FullName, &p.Username, &p.Email, &p.PasswordHash,
			&avatar, &bio, &location, &phone, &p.Role, &p.JoinedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p.AvatarURL = avatar.String
		p.Bio = bio.String
		p.Location = location.String
		p.Phone = phone.String
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
