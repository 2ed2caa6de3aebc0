package commissionRepo

import (
	"context"
	"errors"
	"time"

	"santai/database"
	"santai/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repository errors surfaced to the service layer.
var (
	// ErrNotFound means no commission record matches the given id.
	ErrNotFound = errors.New("commission record not found")
	// ErrConcurrentModification means a conditional transition lost the
	// race: the stored status no longer matches what the caller observed.
	// The caller must re-read before retrying or giving up.
	ErrConcurrentModification = errors.New("commission record modified concurrently")
)

// CommissionRepository persists commission records. All mutations after
// creation go through ConditionalTransition so concurrent admin actions and
// background sweeps stay safe without a global lock.
type CommissionRepository interface {
	// Create inserts a record, or returns the existing one when the
	// bookingId is already taken. The bool reports whether an insert
	// actually happened.
	Create(ctx context.Context, rec models.CommissionRecord) (*models.CommissionRecord, bool, error)
	GetByID(ctx context.Context, id string) (*models.CommissionRecord, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.CommissionRecord, error)

	// ConditionalTransition applies patch only while the stored status
	// still equals expected, returning the updated record. A status
	// mismatch yields ErrConcurrentModification.
	ConditionalTransition(ctx context.Context, id string, expected models.CommissionStatus, patch bson.M) (*models.CommissionRecord, error)

	ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.CommissionRecord, error)
	ListByStatus(ctx context.Context, statuses ...models.CommissionStatus) ([]models.CommissionRecord, error)

	// ListOverdueCandidates pages in id order through records still in
	// pending/rejected whose deadline has passed. Restartable: pass the
	// last seen id to resume.
	ListOverdueCandidates(ctx context.Context, now time.Time, afterID string, limit int64) ([]models.CommissionRecord, error)

	// UnpaidSummary returns the count and total amount due of a
	// provider's unpaid (pending or overdue) commissions.
	UnpaidSummary(ctx context.Context, providerID string) (int64, int64, error)

	EnsureIndexes() error
}

type mongoCommissionRepo struct {
	coll *mongo.Collection
}

// NewMongoCommissionRepo returns a CommissionRepository backed by MongoDB.
func NewMongoCommissionRepo() CommissionRepository {
	db := database.MongoClient.Database(database.DBName)
	return &mongoCommissionRepo{
		coll: db.Collection("commission_records"),
	}
}
