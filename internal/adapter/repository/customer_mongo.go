package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/brightcrm/customer-service/internal/domain/model"
	domainRepo "github.com/brightcrm/customer-service/internal/domain/repository"
)

const customersCollection = "customers"

type customerRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewCustomerRepository creates a customer repository backed by the
// customers collection of the given database.
func NewCustomerRepository(db *mongo.Database, logger *zap.Logger) domainRepo.CustomerRepository {
	return &customerRepository{
		collection: db.Collection(customersCollection),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique index on email. The duplicate check in
// the request pipeline is a pre-insert lookup and can race; the index makes
// the store reject the loser of that race.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(customersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var customer model.Customer
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&customer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}
	return &customer, nil
}

func (r *customerRepository) FindAll(ctx context.Context) ([]model.Customer, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer cursor.Close(ctx)

	customers := []model.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("failed to decode customers: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) (*model.Customer, error) {
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		customer.ID = oid
	}
	r.logger.Debug("inserted customer", zap.String("id", customer.ID.Hex()))
	return customer, nil
}

func (r *customerRepository) UpdateByID(ctx context.Context, id string, update domainRepo.CustomerUpdate) (*model.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot match any stored record.
		return nil, nil
	}

	set := bson.M{
		"name":               update.Name,
		"email":              update.Email,
		"phone":              update.Phone,
		"address":            update.Address,
		"termsAndConditions": update.TermsAndConditions,
		"updatedAt":          time.Now().UTC(),
	}
	// URL fields without a new upload are left out of the update document so
	// the stored values are not overwritten.
	if update.ImageURL != nil {
		set["imageUrl"] = *update.ImageURL
	}
	if update.VideoURL != nil {
		set["videoUrl"] = *update.VideoURL
	}

	var updated model.Customer
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return &updated, nil
}

func (r *customerRepository) DeleteByID(ctx context.Context, id string) (*model.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var deleted model.Customer
	err = r.collection.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&deleted)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete customer: %w", err)
	}
	return &deleted, nil
}
