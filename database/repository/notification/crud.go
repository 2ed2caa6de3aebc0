package notificationRepo

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

// Create inserts a new operator alert. A duplicate (bookingId, type) insert
// resolves to the alert already stored.
func (r *mongoNotificationRepo) Create(ctx context.Context, n models.AdminNotification) (*models.AdminNotification, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, n)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			var existing models.AdminNotification
			getErr := r.coll.FindOne(ctx, bson.M{"bookingId": n.BookingID, "type": n.Type}).Decode(&existing)
			if getErr != nil {
				return nil, false, fmt.Errorf("duplicate alert (%s, %s) but fetch of existing failed: %w", n.BookingID, n.Type, getErr)
			}
			return &existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to insert admin notification: %w", err)
	}
	return &n, true, nil
}

// GetByID returns an alert by its ID.
func (r *mongoNotificationRepo) GetByID(ctx context.Context, id string) (*models.AdminNotification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n models.AdminNotification
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns alerts newest first, optionally unread only.
func (r *mongoNotificationRepo) List(ctx context.Context, unreadOnly bool, limit int64) ([]models.AdminNotification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if unreadOnly {
		filter["read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var alerts []models.AdminNotification
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// MarkRead flags an alert as read on the admin dashboard.
func (r *mongoNotificationRepo) MarkRead(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
