package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riddhikharpe/house-helpers/internal/apperror"
	"github.com/Riddhikharpe/house-helpers/internal/handler"
	"github.com/Riddhikharpe/house-helpers/internal/model"
	"github.com/Riddhikharpe/house-helpers/internal/service"
)

// MockRegistrar records the input it was called with.
type MockRegistrar struct {
	Called      bool
	CapturedIn  service.RegistrationInput
	ReturnErr   error
	ReturnValue *model.HelperRecord
}

func (m *MockRegistrar) Register(ctx context.Context, in service.RegistrationInput) (*model.HelperRecord, error) {
	m.Called = true
	m.CapturedIn = in
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	if m.ReturnValue != nil {
		return m.ReturnValue, nil
	}
	return &model.HelperRecord{Name: in.Name, Age: in.Age, Gender: in.Gender, Rate: in.Rate, PhotoPath: model.NoPhotoSentinel}, nil
}

// MockSearcher returns a canned result.
type MockSearcher struct {
	CapturedMaxRate float64
	ReturnRes       *service.SearchResult
	ReturnErr       error
}

func (m *MockSearcher) Search(ctx context.Context, maxRate float64) (*service.SearchResult, error) {
	m.CapturedMaxRate = maxRate
	if m.ReturnErr != nil {
		return nil, m.ReturnErr
	}
	return m.ReturnRes, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type photoPart struct {
	filename string
	data     []byte
}

// multipartRequest builds a POST /api/helpers request from form fields and
// an optional photo.
func multipartRequest(t *testing.T, fields map[string]string, photo *photoPart) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photo != nil {
		fw, err := mw.CreateFormFile("photo", photo.filename)
		require.NoError(t, err)
		_, err = fw.Write(photo.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/helpers", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"name":       "Sunita",
		"age":        "32",
		"gender":     "Female",
		"address":    "22 Lake Road",
		"contact":    "9988776655",
		"experience": "6",
		"rate":       "150.5",
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var res handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	return res
}

func TestHelperHandler_HandleRegister(t *testing.T) {
	logger := testLogger()

	t.Run("valid registration without photo", func(t *testing.T) {
		reg := &MockRegistrar{}
		h := handler.NewHelperHandler(reg, &MockSearcher{}, logger)

		rr := httptest.NewRecorder()
		h.HandleRegister(rr, multipartRequest(t, validFields(), nil))

		assert.Equal(t, http.StatusCreated, rr.Code)
		var res handler.RegisterResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "Helper registered successfully!", res.Message)
		assert.Equal(t, "Sunita", res.Helper.Name)

		assert.Equal(t, service.RegistrationInput{
			Name:       "Sunita",
			Age:        32,
			Gender:     model.GenderFemale,
			Address:    "22 Lake Road",
			Contact:    "9988776655",
			Experience: 6,
			Rate:       150.5,
		}, reg.CapturedIn)
	})

	t.Run("photo is passed through", func(t *testing.T) {
		reg := &MockRegistrar{}
		h := handler.NewHelperHandler(reg, &MockSearcher{}, logger)

		rr := httptest.NewRecorder()
		h.HandleRegister(rr, multipartRequest(t, validFields(), &photoPart{"Sunita.JPG", []byte("jpeg-bytes")}))

		assert.Equal(t, http.StatusCreated, rr.Code)
		require.NotNil(t, reg.CapturedIn.Photo)
		assert.Equal(t, "Sunita.JPG", reg.CapturedIn.Photo.Filename)
		assert.Equal(t, []byte("jpeg-bytes"), reg.CapturedIn.Photo.Data)
	})

	t.Run("photo with disallowed extension", func(t *testing.T) {
		reg := &MockRegistrar{}
		h := handler.NewHelperHandler(reg, &MockSearcher{}, logger)

		rr := httptest.NewRecorder()
		h.HandleRegister(rr, multipartRequest(t, validFields(), &photoPart{"cv.pdf", []byte("%PDF")}))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		res := decodeError(t, rr)
		assert.Equal(t, "validation_error", res.Error)
		assert.Equal(t, "photo", res.Field)
		assert.False(t, reg.Called)
	})

	t.Run("non-numeric age", func(t *testing.T) {
		reg := &MockRegistrar{}
		h := handler.NewHelperHandler(reg, &MockSearcher{}, logger)

		fields := validFields()
		fields["age"] = "thirty"
		rr := httptest.NewRecorder()
		h.HandleRegister(rr, multipartRequest(t, fields, nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "age", decodeError(t, rr).Field)
		assert.False(t, reg.Called)
	})

	t.Run("not multipart", func(t *testing.T) {
		h := handler.NewHelperHandler(&MockRegistrar{}, &MockSearcher{}, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/helpers", bytes.NewBufferString(`{"name":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		h.HandleRegister(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("error kinds map to status codes", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantType   string
			wantMsg    string
		}{
			{
				name:       "validation",
				err:        apperror.ValidationFailed("age", "age must be between 18 and 100"),
				wantStatus: http.StatusBadRequest,
				wantType:   "validation_error",
				wantMsg:    "age must be between 18 and 100",
			},
			{
				name:       "upload",
				err:        apperror.Upload("20240601_101500_me.jpg", errors.New("no space left on device")),
				wantStatus: http.StatusInternalServerError,
				wantType:   "upload_error",
				wantMsg:    "saving photo 20240601_101500_me.jpg: no space left on device",
			},
			{
				name:       "storage",
				err:        apperror.Storage("writing helper table", errors.New("permission denied")),
				wantStatus: http.StatusInternalServerError,
				wantType:   "storage_error",
				wantMsg:    "writing helper table: permission denied",
			},
			{
				name:       "unknown errors are masked",
				err:        errors.New("open /secret/path: boom"),
				wantStatus: http.StatusInternalServerError,
				wantType:   "internal_error",
				wantMsg:    "An internal error occurred",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := handler.NewHelperHandler(&MockRegistrar{ReturnErr: tt.err}, &MockSearcher{}, logger)

				rr := httptest.NewRecorder()
				h.HandleRegister(rr, multipartRequest(t, validFields(), nil))

				assert.Equal(t, tt.wantStatus, rr.Code)
				res := decodeError(t, rr)
				assert.Equal(t, tt.wantType, res.Error)
				assert.Equal(t, tt.wantMsg, res.Message)
			})
		}
	})
}

func TestHelperHandler_HandleSearch(t *testing.T) {
	logger := testLogger()

	t.Run("matches", func(t *testing.T) {
		search := &MockSearcher{ReturnRes: &service.SearchResult{
			Helpers: []model.HelperSummary{{Name: "Asha", Age: 30, Gender: model.GenderFemale, Rate: 90}},
		}}
		h := handler.NewHelperHandler(&MockRegistrar{}, search, logger)

		rr := httptest.NewRecorder()
		h.HandleSearch(rr, httptest.NewRequest(http.MethodGet, "/api/helpers?max_rate=100", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 100.0, search.CapturedMaxRate)
		assert.JSONEq(t,
			`{"helpers":[{"name":"Asha","age":30,"gender":"Female","rate":90}],"noMatch":false}`,
			rr.Body.String())
	})

	t.Run("no match is not an error", func(t *testing.T) {
		search := &MockSearcher{ReturnRes: &service.SearchResult{Helpers: []model.HelperSummary{}, NoMatch: true}}
		h := handler.NewHelperHandler(&MockRegistrar{}, search, logger)

		rr := httptest.NewRecorder()
		h.HandleSearch(rr, httptest.NewRequest(http.MethodGet, "/api/helpers?max_rate=0", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t,
			`{"helpers":[],"noMatch":true,"message":"No helpers found within the specified rate"}`,
			rr.Body.String())
	})

	t.Run("missing max_rate means no limit", func(t *testing.T) {
		search := &MockSearcher{ReturnRes: &service.SearchResult{NoMatch: true}}
		h := handler.NewHelperHandler(&MockRegistrar{}, search, logger)

		rr := httptest.NewRecorder()
		h.HandleSearch(rr, httptest.NewRequest(http.MethodGet, "/api/helpers", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, math.IsInf(search.CapturedMaxRate, 1))
	})

	t.Run("non-numeric max_rate", func(t *testing.T) {
		h := handler.NewHelperHandler(&MockRegistrar{}, &MockSearcher{}, logger)

		rr := httptest.NewRecorder()
		h.HandleSearch(rr, httptest.NewRequest(http.MethodGet, "/api/helpers?max_rate=cheap", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "max_rate", decodeError(t, rr).Field)
	})

	t.Run("storage error", func(t *testing.T) {
		search := &MockSearcher{ReturnErr: apperror.Storage("reading helper table", errors.New("zip: not a valid zip file"))}
		h := handler.NewHelperHandler(&MockRegistrar{}, search, logger)

		rr := httptest.NewRecorder()
		h.HandleSearch(rr, httptest.NewRequest(http.MethodGet, "/api/helpers?max_rate=10", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "storage_error", decodeError(t, rr).Error)
	})
}
