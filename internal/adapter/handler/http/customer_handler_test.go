package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	handlers "github.com/brightcrm/customer-service/internal/adapter/handler/http"
	"github.com/brightcrm/customer-service/internal/domain/model"
	"github.com/brightcrm/customer-service/internal/domain/repository"
	"github.com/brightcrm/customer-service/internal/domain/storage"
	"github.com/brightcrm/customer-service/internal/usecase"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) UpdateByID(ctx context.Context, id string, update repository.CustomerUpdate) (*model.Customer, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) DeleteByID(ctx context.Context, id string) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

// MockMediaStorage is a mock implementation of MediaStorage
type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) Upload(ctx context.Context, data []byte, filename string, folder string) (string, error) {
	args := m.Called(ctx, data, filename, folder)
	return args.String(0), args.Error(1)
}

func newHandler(repo *MockCustomerRepository, media *MockMediaStorage) *handlers.CustomerHandler {
	logger := zap.NewNop()
	service := usecase.NewCustomerService(repo, media, logger)
	return handlers.NewCustomerHandler(logger, service)
}

const validJSON = `{
	"name": "Ann",
	"email": "ann@x.com",
	"phone": "1234567890",
	"address": {"city": "X", "state": "Y", "country": "Z"},
	"termsAndConditions": true
}`

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for key, value := range fields {
		assert.NoError(t, w.WriteField(key, value))
	}
	for field, filename := range files {
		fw, err := w.CreateFormFile(field, filename)
		assert.NoError(t, err)
		_, err = fw.Write([]byte("file-content-" + field))
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req, httptest.NewRecorder()
}

func customerFields() map[string]string {
	return map[string]string{
		"name":               "Ann",
		"email":              "ann@x.com",
		"phone":              "1234567890",
		"address[city]":      "X",
		"address[state]":     "Y",
		"address[country]":   "Z",
		"termsAndConditions": "true",
	}
}

func TestCustomerHandler_CreateCustomer(t *testing.T) {
	e := echo.New()

	t.Run("creates a customer from a JSON body with null media urls", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		mockMedia := new(MockMediaStorage)
		h := newHandler(mockRepo, mockMedia)

		mockRepo.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, nil)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Customer")).
			Run(func(args mock.Arguments) {
				c := args.Get(1).(*model.Customer)
				c.ID = primitive.NewObjectID()
			}).
			Return(&model.Customer{Name: "Ann", Email: "ann@x.com"}, nil)

		req, rec := jsonRequest(http.MethodPost, "/api/customers", validJSON)
		c := e.NewContext(req, rec)

		assert.NoError(t, h.CreateCustomer(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var body map[string]json.RawMessage
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, string(body["message"]), "Customer created successfully")

		var customer map[string]interface{}
		assert.NoError(t, json.Unmarshal(body["customer"], &customer))
		assert.Nil(t, customer["imageUrl"])
		assert.Nil(t, customer["videoUrl"])
		mockMedia.AssertNotCalled(t, "Upload")
	})

	t.Run("rejects an invalid phone with 400", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		h := newHandler(mockRepo, new(MockMediaStorage))

		payload := strings.Replace(validJSON, "1234567890", "123", 1)
		req, rec := jsonRequest(http.MethodPost, "/api/customers", payload)
		c := e.NewContext(req, rec)

		assert.NoError(t, h.CreateCustomer(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `must be exactly 10 digits`)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects a duplicate email with 400", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		h := newHandler(mockRepo, new(MockMediaStorage))

		mockRepo.On("FindByEmail", mock.Anything, "ann@x.com").
			Return(&model.Customer{Email: "ann@x.com"}, nil)

		req, rec := jsonRequest(http.MethodPost, "/api/customers", validJSON)
		c := e.NewContext(req, rec)

		assert.NoError(t, h.CreateCustomer(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email already exists")
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("uploads a multipart image and stores its url", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		mockMedia := new(MockMediaStorage)
		h := newHandler(mockRepo, mockMedia)

		mockRepo.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, nil)
		mockMedia.On("Upload", mock.Anything, []byte("file-content-image"), "photo.png", storage.FolderImages).
			Return("http://media/photo.png", nil)

		var stored *model.Customer
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Customer")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*model.Customer)
			}).
			Return(&model.Customer{}, nil)

		req, rec := multipartRequest(t, http.MethodPost, "/api/customers",
			customerFields(), map[string]string{"image": "photo.png"})
		c := e.NewContext(req, rec)

		assert.NoError(t, h.CreateCustomer(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.NotNil(t, stored.ImageURL)
		assert.Equal(t, "http://media/photo.png", *stored.ImageURL)
		assert.Nil(t, stored.VideoURL)
		mockMedia.AssertExpectations(t)
	})

	t.Run("returns 500 with the upstream message when the upload fails", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		mockMedia := new(MockMediaStorage)
		h := newHandler(mockRepo, mockMedia)

		mockRepo.On("FindByEmail", mock.Anything, "ann@x.com").Return(nil, nil)
		mockMedia.On("Upload", mock.Anything, mock.Anything, "photo.png", storage.FolderImages).
			Return("", assert.AnError)

		req, rec := multipartRequest(t, http.MethodPost, "/api/customers",
			customerFields(), map[string]string{"image": "photo.png"})
		c := e.NewContext(req, rec)

		assert.NoError(t, h.CreateCustomer(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Server error:")
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestCustomerHandler_UpdateCustomer(t *testing.T) {
	e := echo.New()
	id := primitive.NewObjectID()

	t.Run("keeps the stored image url when only a video is uploaded", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		mockMedia := new(MockMediaStorage)
		h := newHandler(mockRepo, mockMedia)

		oldImage := "http://old/img"
		newVideo := "http://media/clip.mp4"
		mockMedia.On("Upload", mock.Anything, []byte("file-content-video"), "clip.mp4", storage.FolderVideos).
			Return(newVideo, nil)

		var captured repository.CustomerUpdate
		mockRepo.On("UpdateByID", mock.Anything, id.Hex(), mock.AnythingOfType("repository.CustomerUpdate")).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(repository.CustomerUpdate)
			}).
			Return(&model.Customer{
				ID:       id,
				Name:     "Ann",
				Email:    "ann@x.com",
				ImageURL: &oldImage,
				VideoURL: &newVideo,
			}, nil)

		req, rec := multipartRequest(t, http.MethodPut, "/api/customers/"+id.Hex(),
			customerFields(), map[string]string{"video": "clip.mp4"})
		c := e.NewContext(req, rec)
		c.SetPath("/api/customers/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.Hex())

		assert.NoError(t, h.UpdateCustomer(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, captured.ImageURL)
		assert.NotNil(t, captured.VideoURL)
		assert.Contains(t, rec.Body.String(), `"imageUrl":"http://old/img"`)
		assert.Contains(t, rec.Body.String(), `"videoUrl":"http://media/clip.mp4"`)
	})

	t.Run("returns 404 when no record matches the id", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		h := newHandler(mockRepo, new(MockMediaStorage))

		mockRepo.On("UpdateByID", mock.Anything, id.Hex(), mock.AnythingOfType("repository.CustomerUpdate")).
			Return(nil, nil)

		req, rec := jsonRequest(http.MethodPut, "/api/customers/"+id.Hex(), validJSON)
		c := e.NewContext(req, rec)
		c.SetPath("/api/customers/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.Hex())

		assert.NoError(t, h.UpdateCustomer(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Customer not found")
	})

	t.Run("rejects an invalid body with 400", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		h := newHandler(mockRepo, new(MockMediaStorage))

		payload := strings.Replace(validJSON, "ann@x.com", "nope", 1)
		req, rec := jsonRequest(http.MethodPut, "/api/customers/"+id.Hex(), payload)
		c := e.NewContext(req, rec)
		c.SetPath("/api/customers/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.Hex())

		assert.NoError(t, h.UpdateCustomer(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockRepo.AssertNotCalled(t, "UpdateByID")
	})
}

func TestCustomerHandler_DeleteCustomer(t *testing.T) {
	e := echo.New()
	id := primitive.NewObjectID()

	t.Run("deletes an existing customer", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		h := newHandler(mockRepo, new(MockMediaStorage))

		mockRepo.On("DeleteByID", mock.Anything, id.Hex()).Return(&model.Customer{ID: id}, nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/customers/"+id.Hex(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/customers/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.Hex())

		assert.NoError(t, h.DeleteCustomer(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Customer deleted successfully")
	})

	t.Run("returns 404 for a missing customer", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		h := newHandler(mockRepo, new(MockMediaStorage))

		mockRepo.On("DeleteByID", mock.Anything, id.Hex()).Return(nil, nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/customers/"+id.Hex(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/customers/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.Hex())

		assert.NoError(t, h.DeleteCustomer(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Customer not found")
	})
}

func TestCustomerHandler_ListCustomers(t *testing.T) {
	e := echo.New()

	t.Run("returns all customers", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		h := newHandler(mockRepo, new(MockMediaStorage))

		mockRepo.On("FindAll", mock.Anything).Return([]model.Customer{
			{Name: "Ann", Email: "ann@x.com"},
			{Name: "Bob", Email: "bob@x.com"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, h.ListCustomers(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var customers []model.Customer
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customers))
		assert.Len(t, customers, 2)
		assert.Equal(t, "ann@x.com", customers[0].Email)
	})

	t.Run("returns 500 when the store fails", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		h := newHandler(mockRepo, new(MockMediaStorage))

		mockRepo.On("FindAll", mock.Anything).Return(nil, assert.AnError)

		req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		assert.NoError(t, h.ListCustomers(c))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Server error:")
	})
}
