package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/segyhp/booking-engine/internal/domain"
	customError "github.com/segyhp/booking-engine/pkg/errors"
)

type SessionService struct {
	backend BackendAPI
}

func NewSessionService(backend BackendAPI) *SessionService {
	return &SessionService{backend: backend}
}

// Load resolves the caller's profile once and fixes its capabilities for the request
func (s *SessionService) Load(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, customError.WrapUnauthenticated()
	}

	profile, err := s.backend.GetProfile(ctx, token)
	if err != nil {
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden) {
			return nil, customError.WrapUnauthenticated()
		}
		return nil, customError.WrapGenericSubmissionError(err)
	}
	if profile.ID == "" {
		return nil, customError.WrapUnauthenticated()
	}

	return domain.NewSession(profile.ID, profile.Email, domain.Role(profile.Role), token), nil
}
