package reservations

import (
	"context"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReservationMongoRepository struct {
	Collection *mongo.Collection
}

func NewReservationMongoRepository(db *mongo.Client, dbName string) contracts.ReservationRepository {
	return &ReservationMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionReservations),
	}
}

func (r *ReservationMongoRepository) Insert(ctx context.Context, reservation *models.Reservation) (string, error) {
	result, err := r.Collection.InsertOne(ctx, reservation)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *ReservationMongoRepository) FindByID(ctx context.Context, reservationID string) (*models.Reservation, error) {
	var reservation models.Reservation
	objectID, err := primitive.ObjectIDFromHex(reservationID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&reservation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &reservation, nil
}

func (r *ReservationMongoRepository) FindByPaymentOrderID(ctx context.Context, paymentOrderID string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.Collection.FindOne(ctx, bson.M{"paymentOrderId": paymentOrderID}).Decode(&reservation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &reservation, nil
}

func (r *ReservationMongoRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Reservation, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return reservations, nil
}

func (r *ReservationMongoRepository) ListAll(ctx context.Context) ([]models.Reservation, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return reservations, nil
}

// MarkCancelled flips a reservation to cancelled only while it is neither
// cancelled already nor paid. A capture that lands first makes the filter
// miss, so a cancel can never undo a completed payment.
func (r *ReservationMongoRepository) MarkCancelled(ctx context.Context, reservationID string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(reservationID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}
	filter := bson.M{
		"_id":           objectID,
		"status":        bson.M{"$ne": constvars.ReservationStatusCancelled},
		"paymentStatus": bson.M{"$ne": constvars.PaymentStatusCompleted},
	}
	update := bson.M{"$set": bson.M{
		"status":    constvars.ReservationStatusCancelled,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}

// MarkSlotReleased records that the ledger claim behind a cancelled
// reservation has been freed.
func (r *ReservationMongoRepository) MarkSlotReleased(ctx context.Context, reservationID string) error {
	objectID, err := primitive.ObjectIDFromHex(reservationID)
	if err != nil {
		return exceptions.ErrMongoDBNotObjectID(err)
	}
	update := bson.M{"$set": bson.M{
		"slotReleased": true,
		"updatedAt":    time.Now().UTC(),
	}}
	if _, err := r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, update); err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// SetPaymentOrderID attaches a gateway order while the reservation is still
// an unpaid booking with no order recorded.
func (r *ReservationMongoRepository) SetPaymentOrderID(ctx context.Context, reservationID, paymentOrderID string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(reservationID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}
	filter := bson.M{
		"_id":           objectID,
		"status":        constvars.ReservationStatusBooked,
		"paymentStatus": constvars.PaymentStatusPending,
		"$or": []bson.M{
			{"paymentOrderId": bson.M{"$exists": false}},
			{"paymentOrderId": ""},
		},
	}
	update := bson.M{"$set": bson.M{
		"paymentOrderId": paymentOrderID,
		"updatedAt":      time.Now().UTC(),
	}}
	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}

// MarkPaid performs the single state transition both confirmation channels
// funnel into. The filter only matches a booked, unpaid reservation, so of
// any number of concurrent finalizations exactly one wins; the rest re-read
// and report based on what they find.
func (r *ReservationMongoRepository) MarkPaid(ctx context.Context, reservationID, paymentOrderID, paymentReferenceID string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(reservationID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}
	filter := bson.M{
		"_id":            objectID,
		"status":         constvars.ReservationStatusBooked,
		"paymentStatus":  constvars.PaymentStatusPending,
		"paymentOrderId": paymentOrderID,
	}
	update := bson.M{"$set": bson.M{
		"status":             constvars.ReservationStatusConfirmed,
		"paymentStatus":      constvars.PaymentStatusCompleted,
		"paymentReferenceId": paymentReferenceID,
		"updatedAt":          time.Now().UTC(),
	}}
	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}
