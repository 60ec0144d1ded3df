package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/einar/transportapp/internal/api"
	"github.com/einar/transportapp/internal/database/repository"
	"github.com/einar/transportapp/internal/logging"
)

// Backend is the subset of *api.Client the service calls.
type Backend interface {
	Register(ctx context.Context, req api.RegisterRequest) (api.RegisterResponse, error)
	CreateOrganization(ctx context.Context, req api.CreateOrganizationRequest, country string) (api.CreateOrganizationResponse, error)
}

// OnboardingService performs the two backend calls and keeps a local history
// of the ones that succeeded. History is best effort: a failed write is logged
// and never changes the call's outcome. Nil repos disable history.
type OnboardingService struct {
	API           Backend
	Accounts      *repository.AccountRepo
	Organizations *repository.OrganizationRepo
	Log           *slog.Logger
}

// Register calls the backend and records the account when it was accepted.
func (s *OnboardingService) Register(ctx context.Context, req api.RegisterRequest) (api.RegisterResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	resp, err := s.API.Register(ctx, req)
	log := logging.OrDiscard(s.Log).With("op", "register", "email", req.Email)
	if err != nil {
		log.Info("registration failed", "kind", api.KindOf(err).String(), "error", err)
		return resp, err
	}
	if resp.HasErrorPrefix() {
		log.Info("registration refused", "message", resp.Message)
		return resp, nil
	}
	log.Info("registration accepted")
	if s.Accounts != nil {
		if _, herr := s.Accounts.Insert(ctx, repository.Account{Email: req.Email, Message: resp.Message}); herr != nil {
			log.Warn("record account", "error", herr)
		}
	}
	return resp, nil
}

// CreateOrganization calls the backend and records the organization when a
// key was issued.
func (s *OnboardingService) CreateOrganization(ctx context.Context, req api.CreateOrganizationRequest, country string) (api.CreateOrganizationResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	resp, err := s.API.CreateOrganization(ctx, req, country)
	log := logging.OrDiscard(s.Log).With("op", "create organization", "email", req.Email, "country", country)
	if err != nil {
		log.Info("organization failed", "kind", api.KindOf(err).String(), "error", err)
		return resp, err
	}
	if !resp.HasKey() {
		log.Info("organization refused", "message", resp.Message)
		return resp, nil
	}
	log.Info("organization created", "key", resp.OrganizationKey)
	if s.Organizations != nil {
		_, herr := s.Organizations.Upsert(ctx, repository.Organization{
			OrganizationKey: resp.OrganizationKey,
			Name:            req.Name,
			Country:         country,
			Email:           req.Email,
			Message:         resp.Message,
		})
		if herr != nil {
			log.Warn("record organization", "error", herr)
		}
	}
	return resp, nil
}

// LastRegisteredEmail returns the email of the newest recorded account, or ""
// when history is empty or disabled.
func (s *OnboardingService) LastRegisteredEmail(ctx context.Context) (string, error) {
	if s.Accounts == nil {
		return "", nil
	}
	a, err := s.Accounts.Latest(ctx)
	if err != nil {
		return "", fmt.Errorf("latest account: %w", err)
	}
	if a == nil {
		return "", nil
	}
	return a.Email, nil
}

// History is everything recorded locally.
type History struct {
	Accounts      []repository.Account
	Organizations []repository.Organization
}

func (s *OnboardingService) History(ctx context.Context) (History, error) {
	var h History
	if s.Accounts != nil {
		accts, err := s.Accounts.List(ctx)
		if err != nil {
			return History{}, fmt.Errorf("list accounts: %w", err)
		}
		h.Accounts = accts
	}
	if s.Organizations != nil {
		orgs, err := s.Organizations.ListByEmail(ctx, "")
		if err != nil {
			return History{}, fmt.Errorf("list organizations: %w", err)
		}
		h.Organizations = orgs
	}
	return h, nil
}
