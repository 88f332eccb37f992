package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Riddhikharpe/house-helpers/internal/apperror"
	"github.com/Riddhikharpe/house-helpers/internal/auth"
	"github.com/Riddhikharpe/house-helpers/internal/model"
	"github.com/Riddhikharpe/house-helpers/internal/repository"
)

// DownloadService gates the table download behind the credential verifier.
//
// There is no lockout or rate limiting: a wrong pair just yields
// apperror.ErrAuth.
type DownloadService struct {
	repo     repository.HelperRepository
	verifier auth.Verifier
	tokens   *auth.TokenService
	logger   *slog.Logger
}

func NewDownloadService(
	repo repository.HelperRepository,
	verifier auth.Verifier,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *DownloadService {
	return &DownloadService{
		repo:     repo,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger,
	}
}

// Download checks the credentials and returns the table file.
func (s *DownloadService) Download(ctx context.Context, username, password string) (*model.DownloadArtifact, error) {
	if !s.verifier.Verify(username, password) {
		s.logger.Warn("download denied")
		return nil, apperror.InvalidCredentials()
	}
	return s.Artifact(ctx, username)
}

// Login checks the credentials and returns a token for a later Artifact
// call through the RequireAuth middleware.
func (s *DownloadService) Login(ctx context.Context, username, password string) (string, error) {
	if !s.verifier.Verify(username, password) {
		s.logger.Warn("login denied")
		return "", apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(username)
	if err != nil {
		return "", fmt.Errorf("issuing download token: %w", err)
	}
	s.logger.Info("login successful", slog.String("username", username))
	return token, nil
}

// Artifact returns the table file for an already authenticated user.
func (s *DownloadService) Artifact(ctx context.Context, username string) (*model.DownloadArtifact, error) {
	data, err := s.repo.Export(ctx)
	if err != nil {
		s.logger.Error("failed to read helper table", slog.String("error", err.Error()))
		return nil, fmt.Errorf("downloading helper table: %w", err)
	}

	s.logger.Info("download granted",
		slog.String("username", username),
		slog.Int("bytes", len(data)),
	)
	return &model.DownloadArtifact{
		Filename:    s.repo.Filename(),
		ContentType: model.SpreadsheetContentType,
		Data:        data,
	}, nil
}
