package commissionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"santai/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new commission record. The unique index on bookingId is
// the idempotence guard: a duplicate insert resolves to the record that won.
func (r *mongoCommissionRepo) Create(ctx context.Context, rec models.CommissionRecord) (*models.CommissionRecord, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, getErr := r.GetByBookingID(ctx, rec.BookingID)
			if getErr != nil {
				return nil, false, fmt.Errorf("duplicate bookingId %s but fetch of existing record failed: %w", rec.BookingID, getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to insert commission record: %w", err)
	}
	return &rec, true, nil
}

// GetByID returns a commission record by its ID.
func (r *mongoCommissionRepo) GetByID(ctx context.Context, id string) (*models.CommissionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.CommissionRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetByBookingID returns the commission record for a booking, if any.
func (r *mongoCommissionRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.CommissionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.CommissionRecord
	err := r.coll.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ConditionalTransition is the compare-and-swap primitive: the write lands
// only if the stored status still matches what the caller last observed.
func (r *mongoCommissionRepo) ConditionalTransition(ctx context.Context, id string, expected models.CommissionStatus, patch bson.M) (*models.CommissionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	patch["updatedAt"] = time.Now()
	filter := bson.M{"id": id, "status": expected}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.CommissionRecord
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": patch}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish a lost race from a missing record.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrConcurrentModification
	}
	if err != nil {
		return nil, fmt.Errorf("failed conditional transition for commission %s: %w", id, err)
	}
	return &updated, nil
}
