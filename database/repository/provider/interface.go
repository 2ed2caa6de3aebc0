package providerRepo

import (
	"context"
	"errors"

	"santai/database"
	"santai/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound means no provider matches the given id.
var ErrNotFound = errors.New("provider not found")

// ProviderRepository exposes only the eligibility slice of the provider
// document. Everything else on the provider belongs to the provider service.
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// SetEligibility flips the booking gate. eligible=false records the
	// reason; eligible=true clears it and restores availability.
	SetEligibility(ctx context.Context, id string, eligible bool, reason string) error
	EnsureIndexes() error
}

type mongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo returns a ProviderRepository backed by MongoDB.
func NewMongoProviderRepo() ProviderRepository {
	db := database.MongoClient.Database(database.DBName)
	return &mongoProviderRepo{
		coll: db.Collection("providers"),
	}
}
