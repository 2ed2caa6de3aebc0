package notificationRepo

import (
	"context"
	"errors"

	"santai/database"
	"santai/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound means no notification matches the given id.
var ErrNotFound = errors.New("admin notification not found")

// NotificationRepository persists operator alerts. The unique
// (bookingId, type) index deduplicates retried deliveries: a retry that
// actually landed earlier resolves to the stored alert instead of a second one.
type NotificationRepository interface {
	// Create inserts an alert, or returns the existing one for the same
	// (bookingId, type). The bool reports whether an insert happened.
	Create(ctx context.Context, n models.AdminNotification) (*models.AdminNotification, bool, error)
	GetByID(ctx context.Context, id string) (*models.AdminNotification, error)
	List(ctx context.Context, unreadOnly bool, limit int64) ([]models.AdminNotification, error)
	MarkRead(ctx context.Context, id string) error
	EnsureIndexes() error
}

type mongoNotificationRepo struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepo returns a NotificationRepository backed by MongoDB.
func NewMongoNotificationRepo() NotificationRepository {
	db := database.MongoClient.Database(database.DBName)
	return &mongoNotificationRepo{
		coll: db.Collection("admin_notifications"),
	}
}
