package auditRepo

import (
	"context"

	"santai/database"
	"santai/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AuditRepository is the append-only log of orchestration outcomes. There is
// deliberately no update or delete: entries are immutable once written.
type AuditRepository interface {
	Append(ctx context.Context, entry models.AuditEntry) (string, error)
	ListRecent(ctx context.Context, kind string, limit int64) ([]models.AuditEntry, error)
	ListByCommission(ctx context.Context, commissionID string) ([]models.AuditEntry, error)
	EnsureIndexes() error
}

type mongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo returns an AuditRepository backed by MongoDB.
func NewMongoAuditRepo() AuditRepository {
	db := database.MongoClient.Database(database.DBName)
	return &mongoAuditRepo{
		coll: db.Collection("audit_entries"),
	}
}
