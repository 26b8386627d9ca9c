package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

const auditCollection = "auth_events"

// AuditRepository persists authentication events to the auth_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// EnsureIndexes creates the lookup indexes used when investigating an account.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

// Insert writes one event. Zero-valued optional fields are omitted.
func (r *AuditRepository) Insert(ctx context.Context, event domain.AuthEvent) error {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	doc := bson.M{
		"type":        string(event.Type),
		"occurred_at": occurred.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.UserID != 0 {
		doc["user_id"] = event.UserID
	}
	if event.Username != "" {
		doc["username"] = event.Username
	}
	if event.ActorID != 0 {
		doc["actor_id"] = event.ActorID
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}
	if event.RemoteAddr != "" {
		doc["remote_addr"] = event.RemoteAddr
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByUser returns the latest events recorded for userID, newest first.
func (r *AuditRepository) ListByUser(ctx context.Context, userID int64, limit int64) ([]domain.AuthEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer cur.Close(ctx)

	var docs []auditDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}
	events := make([]domain.AuthEvent, 0, len(docs))
	for _, d := range docs {
		events = append(events, d.toDomain())
	}
	return events, nil
}

type auditDocument struct {
	Type       string    `bson:"type"`
	UserID     int64     `bson:"user_id,omitempty"`
	Username   string    `bson:"username,omitempty"`
	ActorID    int64     `bson:"actor_id,omitempty"`
	Detail     string    `bson:"detail,omitempty"`
	RemoteAddr string    `bson:"remote_addr,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
}

func (d auditDocument) toDomain() domain.AuthEvent {
	return domain.AuthEvent{
		Type:       domain.AuthEventType(d.Type),
		UserID:     d.UserID,
		Username:   d.Username,
		ActorID:    d.ActorID,
		Detail:     d.Detail,
		RemoteAddr: d.RemoteAddr,
		OccurredAt: d.OccurredAt,
	}
}
