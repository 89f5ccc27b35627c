package profile

import (
	"fmt"
	"time"

	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
	"github.com/revkonstriksyon/fluid-finance-api/internal/utils"
)

// CommandService registers and mutates profiles.
type CommandService struct {
	writeRepo *WriteRepository
}

func NewCommandService(writeRepo *WriteRepository) *CommandService {
	return &CommandService{writeRepo: writeRepo}
}

func (s *CommandService) Register(cmd cqrs.RegisterCommand) (*models.Profile, error) {
	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	profile := &models.Profile{
		ID:           utils.GenerateID("usr"),
		FullName:     cmd.FullName,
		Username:     cmd.Username,
		Email:        cmd.Email,
		PasswordHash: hash,
		Phone:        cmd.Phone,
		Role:         "user",
		JoinedAt:     now,
		UpdatedAt:    now,
	}
	if err := s.writeRepo.Create(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *CommandService) UpdateProfile(cmd cqrs.UpdateProfileCommand) (*models.ProfileView, error) {
	profile, err := s.writeRepo.GetByID(cmd.UserID)
	if err != nil {
		return nil, err
	}

	profile.FullName = cmd.FullName
	profile.AvatarURL = cmd.AvatarURL
	profile.Bio = cmd.Bio
	profile.Location = cmd.Location
	profile.Phone = cmd.Phone
	profile.UpdatedAt = time.Now().UTC()

	if err := s.writeRepo.Update(profile); err != nil {
		return nil, err
	}
	return profileToView(profile), nil
}

func (s *CommandService) DeleteProfile(cmd cqrs.DeleteProfileCommand) error {
	return s.writeRepo.Delete(cmd.UserID)
}

func profileToView(p *models.Profile) *models.ProfileView {
	return &models.ProfileView{
		ID:        p.ID,
		FullName:  p.FullName,
		Username:  p.Username,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
		Bio:       p.Bio,
		Location:  p.Location,
		Phone:     p.Phone,
		JoinedAt:  p.JoinedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
