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

// MemberRepository persists members. Lookups return models.ErrNotFound when
// nothing matches.
type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error)
	FindByEmail(ctx context.Context, email string) (*models.Member, error)
	List(ctx context.Context) ([]models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) error
}

type mongoMemberRepository struct {
	collection *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) MemberRepository {
	return &mongoMemberRepository{collection: db.Collection(membersCollection)}
}

func (r *mongoMemberRepository) Create(ctx context.Context, member *models.Member) error {
	if member.ID.IsZero() {
		member.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, member); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *mongoMemberRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoMemberRepository) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoMemberRepository) findOne(ctx context.Context, filter bson.M) (*models.Member, error) {
	var member models.Member
	if err := r.collection.FindOne(ctx, filter).Decode(&member); err != nil {
		if isNoDocuments(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &member, nil
}

func (r *mongoMemberRepository) List(ctx context.Context) ([]models.Member, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find members: %w", err)
	}
	defer cursor.Close(ctx)

	members := []models.Member{}
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("decode members: %w", err)
	}
	return members, nil
}

// Update writes every mutable field. An empty email is unset so the sparse
// unique index ignores the document.
func (r *mongoMemberRepository) Update(ctx context.Context, member *models.Member) error {
	set := bson.M{
		"name":      member.Name,
		"role":      member.Role,
		"updatedAt": member.UpdatedAt,
	}
	unset := bson.M{}
	if member.Email != "" {
		set["email"] = member.Email
	} else {
		unset["email"] = ""
	}
	if member.Password != "" {
		set["password"] = member.Password
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.collection.UpdateByID(ctx, member.ID, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("update member: %w", err)
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *mongoMemberRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *mongoMemberRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	return nil
}
