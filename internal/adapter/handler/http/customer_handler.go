package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/brightcrm/customer-service/internal/domain/dto"
	"github.com/brightcrm/customer-service/internal/usecase"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	logger  *zap.Logger
	service *usecase.CustomerService
}

// NewCustomerHandler creates a new customer handler instance
func NewCustomerHandler(logger *zap.Logger, service *usecase.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		logger:  logger,
		service: service,
	}
}

// ListCustomers handles GET /api/customers
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	customers, err := h.service.ListCustomers(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list customers", zap.Error(err))
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, customers)
}

// CreateCustomer handles POST /api/customers
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	req, err := h.bindRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	image, video, err := h.formFiles(c)
	if err != nil {
		h.logger.Error("Failed to read uploaded files", zap.Error(err))
		return serverError(c, err)
	}

	customer, err := h.service.CreateCustomer(c.Request().Context(), req, image, video)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		h.logger.Error("Failed to create customer", zap.String("email", req.Email), zap.Error(err))
		return serverError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Customer created successfully",
		"customer": customer,
	})
}

// UpdateCustomer handles PUT /api/customers/:id
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id := c.Param("id")

	req, err := h.bindRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	image, video, err := h.formFiles(c)
	if err != nil {
		h.logger.Error("Failed to read uploaded files", zap.Error(err))
		return serverError(c, err)
	}

	customer, err := h.service.UpdateCustomer(c.Request().Context(), id, req, image, video)
	if err != nil {
		if errors.Is(err, usecase.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		h.logger.Error("Failed to update customer", zap.String("id", id), zap.Error(err))
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Customer updated successfully",
		"customer": customer,
	})
}

// DeleteCustomer handles DELETE /api/customers/:id
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id := c.Param("id")

	if err := h.service.DeleteCustomer(c.Request().Context(), id); err != nil {
		if errors.Is(err, usecase.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		h.logger.Error("Failed to delete customer", zap.String("id", id), zap.Error(err))
		return serverError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Customer deleted successfully"})
}

// bindRequest populates the payload from a JSON body or from multipart/url
// encoded form fields. Form bodies carry the address either as bracketed
// keys (address[city]) or as a JSON-encoded address field.
func (h *CustomerHandler) bindRequest(c echo.Context) (*dto.CustomerRequest, error) {
	req := new(dto.CustomerRequest)

	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		if err := c.Bind(req); err != nil {
			return nil, err
		}
		return req, nil
	}

	req.Name = c.FormValue("name")
	req.Email = c.FormValue("email")
	req.Phone = c.FormValue("phone")
	req.Address = dto.AddressRequest{
		City:    addressFormValue(c, "city"),
		State:   addressFormValue(c, "state"),
		Country: addressFormValue(c, "country"),
	}
	if req.Address == (dto.AddressRequest{}) {
		if raw := c.FormValue("address"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Address); err != nil {
				return nil, err
			}
		}
	}
	if v := c.FormValue("termsAndConditions"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			req.TermsAndConditions = &b
		}
	}
	return req, nil
}

func addressFormValue(c echo.Context, key string) string {
	if v := c.FormValue("address[" + key + "]"); v != "" {
		return v
	}
	return c.FormValue("address." + key)
}

// formFiles buffers the optional image and video parts into memory. A
// missing part, or a body that is not multipart at all, is not an error.
func (h *CustomerHandler) formFiles(c echo.Context) (image, video *usecase.UploadedFile, err error) {
	image, err = h.formFile(c, "image")
	if err != nil {
		return nil, nil, err
	}
	video, err = h.formFile(c, "video")
	if err != nil {
		return nil, nil, err
	}
	return image, video, nil
}

func (h *CustomerHandler) formFile(c echo.Context, name string) (*usecase.UploadedFile, error) {
	fileHeader, err := c.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	return &usecase.UploadedFile{
		Data:     data,
		Filename: fileHeader.Filename,
	}, nil
}

func serverError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": "Server error: " + err.Error(),
	})
}
