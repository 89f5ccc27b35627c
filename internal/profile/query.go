package profile

import (
	"github.com/revkonstriksyon/fluid-finance-api/internal/cqrs"
	"github.com/revkonstriksyon/fluid-finance-api/internal/models"
)

// QueryService serves profile reads.
type QueryService struct {
	writeRepo *WriteRepository
}

func NewQueryService(writeRepo *WriteRepository) *QueryService {
	return &QueryService{writeRepo: writeRepo}
}

func (s *QueryService) GetProfile(q cqrs.GetProfileQuery) (*models.ProfileView, error) {
	profile, err := s.writeRepo.GetByID(q.UserID)
	if err != nil {
		return nil, err
	}
	return profileToView(profile), nil
}
