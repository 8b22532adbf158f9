package slots

import (
	"context"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type SlotLedgerMongo struct {
	Collection *mongo.Collection
	Log        *zap.Logger
}

func NewSlotLedgerMongo(db *mongo.Client, dbName string, logger *zap.Logger) contracts.SlotLedger {
	return &SlotLedgerMongo{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionSlotClaims),
		Log:        logger,
	}
}

// EnsureIndexes creates the unique index that makes TryClaim atomic. It must
// run before the ledger serves traffic.
func (l *SlotLedgerMongo) EnsureIndexes(ctx context.Context) error {
	_, err := l.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "resourceId", Value: 1},
			{Key: "date", Value: 1},
			{Key: "time", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (l *SlotLedgerMongo) TryClaim(ctx context.Context, resourceID, date, timeLabel string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	claim := models.SlotClaim{
		ResourceID: resourceID,
		Date:       date,
		Time:       timeLabel,
		ClaimedAt:  time.Now().UTC(),
	}
	_, err := l.Collection.InsertOne(ctx, claim)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			l.Log.Info("slotLedger.TryClaim slot already taken",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingResourceIDKey, resourceID),
				zap.String(constvars.LoggingSlotDateKey, date),
				zap.String(constvars.LoggingSlotTimeKey, timeLabel),
			)
			return exceptions.ErrSlotUnavailable(err)
		}
		// Fail closed: an unreachable ledger never hands out a slot.
		l.Log.Error("slotLedger.TryClaim error inserting claim",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrSlotLedgerUnavailable(err)
	}

	l.Log.Info("slotLedger.TryClaim claimed slot",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, resourceID),
		zap.String(constvars.LoggingSlotDateKey, date),
		zap.String(constvars.LoggingSlotTimeKey, timeLabel),
	)
	return nil
}

func (l *SlotLedgerMongo) Release(ctx context.Context, resourceID, date, timeLabel string) error {
	filter := bson.M{
		"resourceId": resourceID,
		"date":       date,
		"time":       timeLabel,
	}
	// DeleteOne on an absent claim matches nothing, which keeps Release
	// idempotent.
	_, err := l.Collection.DeleteOne(ctx, filter)
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}

func (l *SlotLedgerMongo) ListTaken(ctx context.Context, resourceID string) (map[string][]string, error) {
	cursor, err := l.Collection.Find(ctx, bson.M{"resourceId": resourceID})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	taken := make(map[string][]string)
	for cursor.Next(ctx) {
		var claim models.SlotClaim
		if err := cursor.Decode(&claim); err != nil {
			return nil, exceptions.ErrMongoDBIterateDocuments(err)
		}
		taken[claim.Date] = append(taken[claim.Date], claim.Time)
	}
	if err := cursor.Err(); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return taken, nil
}
