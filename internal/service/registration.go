// Package service holds the three user actions of the registry:
// registering a helper, searching by rate and downloading the table.
//
// Services take plain Go values and return domain errors from apperror;
// they know nothing about HTTP. Handlers translate both ways.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Riddhikharpe/house-helpers/internal/apperror"
	"github.com/Riddhikharpe/house-helpers/internal/model"
	"github.com/Riddhikharpe/house-helpers/internal/repository"
	"github.com/Riddhikharpe/house-helpers/internal/storage"
)

// Age bounds offered by the registration form.
const (
	MinAge = 18
	MaxAge = 100
)

// Photo is an uploaded image as received from the form.
type Photo struct {
	Filename string
	Data     []byte
}

// RegistrationInput is one submission of the registration form. Name,
// address and contact are free text and may be empty.
type RegistrationInput struct {
	Name       string
	Age        int          `validate:"gte=18,lte=100"`
	Gender     model.Gender `validate:"gender"`
	Address    string
	Contact    string
	Experience int     `validate:"gte=0"`
	Rate       float64 `validate:"gte=0"`
	Photo      *Photo
}

var validationMessages = map[string]string{
	"Age":        fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge),
	"Gender":     "gender must be one of Male, Female, Other",
	"Experience": "experience must not be negative",
	"Rate":       "rate must not be negative",
}

// newValidator registers the "gender" tag, backed by model.Gender.Valid.
func newValidator() *validator.Validate {
	v := validator.New()
	// The only error RegisterValidation returns is for an empty tag name.
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return model.Gender(fl.Field().String()).Valid()
	})
	return v
}

// RegistrationService stores new helper profiles.
type RegistrationService struct {
	repo     repository.HelperRepository
	photos   storage.PhotoStore
	validate *validator.Validate
	now      func() time.Time
	logger   *slog.Logger
}

// NewRegistrationService wires the service. now may be nil, in which case
// time.Now is used; tests pass a fixed clock.
func NewRegistrationService(
	repo repository.HelperRepository,
	photos storage.PhotoStore,
	now func() time.Time,
	logger *slog.Logger,
) *RegistrationService {
	if now == nil {
		now = time.Now
	}
	return &RegistrationService{
		repo:     repo,
		photos:   photos,
		validate: newValidator(),
		now:      now,
		logger:   logger,
	}
}

// PhotoFilename is the name an uploaded photo is stored under:
// "YYYYMMDD_HHMMSS_" followed by the original base name.
func PhotoFilename(at time.Time, original string) string {
	return at.Format(model.PhotoTimestampLayout) + "_" + filepath.Base(original)
}

// Register validates in, stores the photo if there is one, and appends the
// helper row. If the photo was stored but the append fails, the photo file
// is left where it is.
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (*model.HelperRecord, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	now := s.now()

	photoPath := model.NoPhotoSentinel
	if in.Photo != nil {
		filename := PhotoFilename(now, in.Photo.Filename)
		path, err := s.photos.Save(ctx, filename, in.Photo.Data)
		if err != nil {
			s.logger.Error("failed to store photo",
				slog.String("filename", filename),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("registering helper: %w", apperror.Upload(filename, err))
		}
		photoPath = path
	}

	record := &model.HelperRecord{
		Name:             in.Name,
		Age:              in.Age,
		Gender:           in.Gender,
		Address:          in.Address,
		Contact:          in.Contact,
		Experience:       in.Experience,
		PhotoPath:        photoPath,
		Rate:             in.Rate,
		RegistrationDate: now.Format(model.RegistrationDateLayout),
	}

	if err := s.repo.Append(ctx, record); err != nil {
		s.logger.Error("failed to append helper",
			slog.String("name", record.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("registering helper: %w", err)
	}

	s.logger.Info("helper registered",
		slog.String("name", record.Name),
		slog.Float64("rate", record.Rate),
		slog.Bool("has_photo", record.HasPhoto()),
		slog.String("photo", record.PhotoPath),
	)
	return record, nil
}

func (s *RegistrationService) check(in RegistrationInput) error {
	if math.IsInf(in.Rate, 0) || math.IsNaN(in.Rate) {
		return apperror.ValidationFailed("rate", "rate must be a finite number")
	}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].StructField()
			msg, ok := validationMessages[field]
			if !ok {
				msg = verrs[0].Error()
			}
			return apperror.ValidationFailed(strings.ToLower(field), msg)
		}
		return fmt.Errorf("validating registration: %w", err)
	}

	if in.Photo != nil && strings.TrimSpace(in.Photo.Filename) == "" {
		return apperror.ValidationFailed("photo", "photo filename is required")
	}
	return nil
}
