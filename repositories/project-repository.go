package repositories

import (
	"context"
	"fmt"

	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	FindByName(ctx context.Context, name string) (*models.Project, error)
	// List returns projects newest first.
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
}

type mongoProjectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) ProjectRepository {
	return &mongoProjectRepository{collection: db.Collection(projectsCollection)}
}

func (r *mongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *mongoProjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoProjectRepository) FindByName(ctx context.Context, name string) (*models.Project, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoProjectRepository) findOne(ctx context.Context, filter bson.M) (*models.Project, error) {
	var project models.Project
	if err := r.collection.FindOne(ctx, filter).Decode(&project); err != nil {
		if isNoDocuments(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &project, nil
}

func (r *mongoProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return projects, nil
}

func (r *mongoProjectRepository) Update(ctx context.Context, project *models.Project) error {
	update := bson.M{"$set": bson.M{
		"name":        project.Name,
		"description": project.Description,
		"color":       project.Color,
		"updatedAt":   project.UpdatedAt,
	}}
	result, err := r.collection.UpdateByID(ctx, project.ID, update)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *mongoProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *mongoProjectRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete projects: %w", err)
	}
	return nil
}
