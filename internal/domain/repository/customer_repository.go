package repository

import (
	"context"

	"github.com/brightcrm/customer-service/internal/domain/model"
)

// CustomerUpdate carries the replacement values for an update. ImageURL and
// VideoURL are nil when no new file was supplied; the repository must omit
// those fields from the update document so the stored URLs survive.
type CustomerUpdate struct {
	Name               string
	Email              string
	Phone              string
	Address            model.Address
	TermsAndConditions bool
	ImageURL           *string
	VideoURL           *string
}

// CustomerRepository specifies customer persistence operations. Lookups that
// match nothing return (nil, nil), not an error.
type CustomerRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	FindAll(ctx context.Context) ([]model.Customer, error)
	Create(ctx context.Context, customer *model.Customer) (*model.Customer, error)
	UpdateByID(ctx context.Context, id string, update CustomerUpdate) (*model.Customer, error)
	DeleteByID(ctx context.Context, id string) (*model.Customer, error)
}
