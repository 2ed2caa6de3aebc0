package commissionRepo

import (
	"context"
	"time"

	"santai/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListByProvider fetches a provider's commission history, newest first.
func (r *mongoCommissionRepo) ListByProvider(ctx context.Context, providerID string, limit int64) ([]models.CommissionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"providerId": providerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []models.CommissionRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ListByStatus fetches all records in any of the given statuses.
func (r *mongoCommissionRepo) ListByStatus(ctx context.Context, statuses ...models.CommissionStatus) ([]models.CommissionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"status": bson.M{"$in": statuses}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []models.CommissionRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// ListOverdueCandidates pages through records the sweep should act on:
// still pending or rejected, past their payment deadline. Ordered by id so a
// restarted sweep resumes from the last id it processed.
func (r *mongoCommissionRepo) ListOverdueCandidates(ctx context.Context, now time.Time, afterID string, limit int64) ([]models.CommissionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":          bson.M{"$in": []models.CommissionStatus{models.CommissionPending, models.CommissionRejected}},
		"paymentDeadline": bson.M{"$lt": now},
	}
	if afterID != "" {
		filter["id"] = bson.M{"$gt": afterID}
	}
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}}).SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []models.CommissionRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// UnpaidSummary aggregates a provider's outstanding obligations: count and
// total due across pending and overdue records.
func (r *mongoCommissionRepo) UnpaidSummary(ctx context.Context, providerID string) (int64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{
			"providerId": providerID,
			"status":     bson.M{"$in": []models.CommissionStatus{models.CommissionPending, models.CommissionOverdue}},
		}},
		{"$group": bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"amount": bson.M{"$sum": "$totalDue"},
		}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Count  int64 `bson:"count"`
		Amount int64 `bson:"amount"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, 0, err
	}
	if len(result) == 0 {
		return 0, 0, nil
	}
	return result[0].Count, result[0].Amount, nil
}
