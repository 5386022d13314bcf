package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/brightcrm/customer-service/internal/domain/dto"
	"github.com/brightcrm/customer-service/internal/domain/model"
	"github.com/brightcrm/customer-service/internal/domain/repository"
	"github.com/brightcrm/customer-service/internal/domain/storage"
)

var (
	// ErrEmailExists is returned when a create collides with a stored email.
	ErrEmailExists = errors.New("Email already exists")
	// ErrCustomerNotFound is returned when an update or delete matches nothing.
	ErrCustomerNotFound = errors.New("Customer not found")
)

// UploadedFile is a file buffered in memory by the multipart middleware.
type UploadedFile struct {
	Data     []byte
	Filename string
}

// CustomerService orchestrates the customer request pipeline: uniqueness
// check, media uploads and persistence. Schema validation happens in the
// handler before the service is invoked.
type CustomerService struct {
	repo   repository.CustomerRepository
	media  storage.MediaStorage
	logger *zap.Logger
}

func NewCustomerService(repo repository.CustomerRepository, media storage.MediaStorage, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		repo:   repo,
		media:  media,
		logger: logger,
	}
}

// CreateCustomer persists a new customer. Image and video, when present,
// are uploaded sequentially in that order before anything is stored, so a
// failed upload leaves no record behind. An image already uploaded when the
// video upload fails stays orphaned on the media store.
func (s *CustomerService) CreateCustomer(ctx context.Context, req *dto.CustomerRequest, image, video *UploadedFile) (*model.Customer, error) {
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	imageURL, videoURL, err := s.uploadMedia(ctx, image, video)
	if err != nil {
		return nil, err
	}

	customer := req.Model()
	customer.ImageURL = imageURL
	customer.VideoURL = videoURL

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer created",
		zap.String("id", created.ID.Hex()),
		zap.String("email", created.Email),
	)
	return created, nil
}

// ListCustomers returns every stored customer in the store's natural order.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.repo.FindAll(ctx)
}

// UpdateCustomer replaces the customer's fields. URL fields are overwritten
// only when a new file of that kind was supplied; otherwise the stored URLs
// are left untouched.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req *dto.CustomerRequest, image, video *UploadedFile) (*model.Customer, error) {
	imageURL, videoURL, err := s.uploadMedia(ctx, image, video)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateByID(ctx, id, repository.CustomerUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Address: model.Address{
			City:    req.Address.City,
			State:   req.Address.State,
			Country: req.Address.Country,
		},
		TermsAndConditions: req.TermsAndConditions != nil && *req.TermsAndConditions,
		ImageURL:           imageURL,
		VideoURL:           videoURL,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrCustomerNotFound
	}

	s.logger.Info("customer updated", zap.String("id", id))
	return updated, nil
}

// DeleteCustomer removes the customer with the given id.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if deleted == nil {
		return ErrCustomerNotFound
	}

	s.logger.Info("customer deleted", zap.String("id", id))
	return nil
}

// uploadMedia uploads the image and then the video. There is no cleanup of
// the image when the video upload fails; the orphaned object is logged.
func (s *CustomerService) uploadMedia(ctx context.Context, image, video *UploadedFile) (*string, *string, error) {
	var imageURL, videoURL *string

	if image != nil {
		url, err := s.media.Upload(ctx, image.Data, image.Filename, storage.FolderImages)
		if err != nil {
			return nil, nil, err
		}
		imageURL = &url
	}

	if video != nil {
		url, err := s.media.Upload(ctx, video.Data, video.Filename, storage.FolderVideos)
		if err != nil {
			if imageURL != nil {
				s.logger.Warn("video upload failed after image upload, image left orphaned",
					zap.String("image_url", *imageURL),
					zap.Error(err),
				)
			}
			return nil, nil, err
		}
		videoURL = &url
	}

	return imageURL, videoURL, nil
}
