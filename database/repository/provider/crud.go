package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"santai/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetByID returns the eligibility slice of a provider document.
func (r *mongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Provider
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetEligibility writes the booking gate fields in one update.
func (r *mongoProviderRepo) SetEligibility(ctx context.Context, id string, eligible bool, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := models.ProviderBusy
	if eligible {
		status = models.ProviderAvailable
		reason = ""
	}
	updateDoc := bson.M{
		"status":             status,
		"bookingEnabled":     eligible,
		"scheduleEnabled":    eligible,
		"deactivationReason": reason,
		"updatedAt":          time.Now(),
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": updateDoc})
	if err != nil {
		return fmt.Errorf("failed to update eligibility for provider %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
