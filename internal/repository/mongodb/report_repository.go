package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vortexcart/api/internal/domain/models"
)

// ReportRepository persists daily report snapshots.
type ReportRepository interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// MongoReportRepository implements ReportRepository on MongoDB.
type MongoReportRepository struct {
	coll *mongo.Collection
}

// NewReportRepository builds the mongo-backed report repository.
func NewReportRepository(base *Client) *MongoReportRepository {
	return &MongoReportRepository{coll: base.db.Collection(collReports)}
}

// SaveDailyReport saves a daily report to the database.
func (r *MongoReportRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	if _, err := r.coll.InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert daily report: %w", err)
	}
	return nil
}
