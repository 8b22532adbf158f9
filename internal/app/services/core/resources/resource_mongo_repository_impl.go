package resources

import (
	"context"
	"medbook-service/internal/app/contracts"
	"medbook-service/internal/app/models"
	"medbook-service/internal/pkg/constvars"
	"medbook-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ResourceMongoRepository struct {
	Collection *mongo.Collection
}

func NewResourceMongoRepository(db *mongo.Client, dbName string) contracts.ResourceRepository {
	return &ResourceMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionResources),
	}
}

func (r *ResourceMongoRepository) CreateResource(ctx context.Context, resource *models.Resource) (string, error) {
	result, err := r.Collection.InsertOne(ctx, resource)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *ResourceMongoRepository) FindByID(ctx context.Context, resourceID string) (*models.Resource, error) {
	var resource models.Resource
	objectID, err := primitive.ObjectIDFromHex(resourceID)
	if err != nil {
		return nil, exceptions.ErrMongoDBNotObjectID(err)
	}
	err = r.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&resource)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &resource, nil
}

func (r *ResourceMongoRepository) ListByKind(ctx context.Context, kind string) ([]models.Resource, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"kind": kind})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var resources []models.Resource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return resources, nil
}

func (r *ResourceMongoRepository) SetAvailability(ctx context.Context, resourceID string, available bool) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(resourceID)
	if err != nil {
		return false, exceptions.ErrMongoDBNotObjectID(err)
	}
	result, err := r.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"available": available}})
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	return result.MatchedCount > 0, nil
}
