package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Riddhikharpe/house-helpers/internal/apperror"
	"github.com/Riddhikharpe/house-helpers/internal/model"
	"github.com/Riddhikharpe/house-helpers/internal/service"
)

// MaxUploadBytes caps the size of a registration request, photo included.
const MaxUploadBytes = 10 << 20

// allowedPhotoExtensions is the upload allow-list offered by the form.
var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Registrar is what HelperHandler needs from the registration service.
type Registrar interface {
	Register(ctx context.Context, in service.RegistrationInput) (*model.HelperRecord, error)
}

// Searcher is what HelperHandler needs from the search service.
type Searcher interface {
	Search(ctx context.Context, maxRate float64) (*service.SearchResult, error)
}

// HelperHandler serves the "Register Helper" and "Search Helpers" forms.
type HelperHandler struct {
	registrar Registrar
	searcher  Searcher
	logger    *slog.Logger
}

func NewHelperHandler(registrar Registrar, searcher Searcher, logger *slog.Logger) *HelperHandler {
	return &HelperHandler{
		registrar: registrar,
		searcher:  searcher,
		logger:    logger,
	}
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Message string             `json:"message"`
	Helper  *model.HelperRecord `json:"helper"`
}

// SearchResponse wraps the search result with the text the page shows when
// nothing matched.
type SearchResponse struct {
	*service.SearchResult
	Message string `json:"message,omitempty"`
}

// HandleRegister stores a new helper profile.
//
// HTTP: POST /api/helpers
// BODY: multipart/form-data with fields name, age, gender, address,
// contact, experience, rate and an optional file field "photo".
//
// Numeric fields are parsed here; range checks belong to the service.
// The photo extension allow-list is a form-level check and lives here too.
func (h *HelperHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, apperror.ValidationFailed("photo", "upload is larger than 10 MB"))
			return
		}
		h.logger.Warn("invalid registration form", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("", "registration must be submitted as multipart form data"))
		return
	}

	in, err := registrationInput(r)
	if err != nil {
		writeError(w, err)
		return
	}

	photo, err := readPhoto(r)
	if err != nil {
		writeError(w, err)
		return
	}
	in.Photo = photo

	record, err := h.registrar.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		Message: "Helper registered successfully!",
		Helper:  record,
	})
}

// HandleSearch lists helpers charging at most max_rate.
//
// HTTP: GET /api/helpers?max_rate=150
//
// A missing max_rate means no limit. "No match" is a 200 with noMatch set,
// not an error.
func (h *HelperHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	maxRate := math.Inf(1)
	if v := strings.TrimSpace(r.URL.Query().Get("max_rate")); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, apperror.ValidationFailed("max_rate", "max rate must be a number of at least 0"))
			return
		}
		maxRate = parsed
	}

	res, err := h.searcher.Search(r.Context(), maxRate)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := SearchResponse{SearchResult: res}
	if res.NoMatch {
		resp.Message = "No helpers found within the specified rate"
	}
	writeJSON(w, http.StatusOK, resp)
}

func registrationInput(r *http.Request) (service.RegistrationInput, error) {
	age, err := formInt(r, "age")
	if err != nil {
		return service.RegistrationInput{}, err
	}
	experience, err := formInt(r, "experience")
	if err != nil {
		return service.RegistrationInput{}, err
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("rate")), 64)
	if err != nil {
		return service.RegistrationInput{}, apperror.ValidationFailed("rate", "rate must be a number")
	}

	return service.RegistrationInput{
		Name:       r.FormValue("name"),
		Age:        age,
		Gender:     model.Gender(r.FormValue("gender")),
		Address:    r.FormValue("address"),
		Contact:    r.FormValue("contact"),
		Experience: experience,
		Rate:       rate,
	}, nil
}

func formInt(r *http.Request, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(field)))
	if err != nil {
		return 0, apperror.ValidationFailed(field, field+" must be a whole number")
	}
	return n, nil
}

// readPhoto returns nil when no file was attached.
func readPhoto(r *http.Request) (*service.Photo, error) {
	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.ValidationFailed("photo", "photo could not be read")
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedPhotoExtensions[ext] {
		return nil, apperror.ValidationFailed("photo", "photo must be a jpg, jpeg or png image")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperror.ValidationFailed("photo", "photo could not be read")
	}
	return &service.Photo{Filename: header.Filename, Data: data}, nil
}
