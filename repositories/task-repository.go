package repositories

import (
	"context"
	"fmt"
	"time"

	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	// Find returns matching tasks in creation order.
	Find(ctx context.Context, query models.TaskQuery) ([]models.Task, error)
	// Update applies the fields present in update and returns the stored task.
	Update(ctx context.Context, id primitive.ObjectID, update models.TaskUpdate, now time.Time) (*models.Task, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	UnassignMember(ctx context.Context, memberID primitive.ObjectID) (int64, error)
	AssignProjectWhereMissing(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	DeleteAll(ctx context.Context) error
}

type mongoTaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) TaskRepository {
	return &mongoTaskRepository{collection: db.Collection(tasksCollection)}
}

func (r *mongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *mongoTaskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		if isNoDocuments(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	normalizeTask(&task)
	return &task, nil
}

func queryFilter(query models.TaskQuery) bson.M {
	filter := bson.M{}
	if query.Status != nil {
		filter["status"] = *query.Status
	}
	if query.Project != nil {
		filter["project"] = *query.Project
	}
	if query.AssignedTo != nil {
		filter["assignedTo"] = *query.AssignedTo
	}
	return filter
}

func (r *mongoTaskRepository) Find(ctx context.Context, query models.TaskQuery) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, queryFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		normalizeTask(&task)
		tasks = append(tasks, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return tasks, nil
}

// updateDocument turns a partial update into $set / $unset operators.
func updateDocument(update models.TaskUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	unset := bson.M{}

	if update.Title.Set {
		set["title"] = update.Title.Value
	}
	if update.Description.Set {
		set["description"] = update.Description.Value
	}
	if update.Priority.Set {
		set["priority"] = update.Priority.Value
	}
	if update.Status.Set {
		set["status"] = update.Status.Value
	}
	if update.Tags.Set {
		tags := update.Tags.Value
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}
	if update.AssignedTo.Set {
		if ref := update.AssignedToRef(); ref != nil {
			set["assignedTo"] = *ref
		} else {
			unset["assignedTo"] = ""
		}
	}
	if update.Project.Set {
		if ref := update.ProjectRef(); ref != nil {
			set["project"] = *ref
		} else {
			unset["project"] = ""
		}
	}
	if update.StartDate.Set {
		if ref := update.StartDateRef(); ref != nil {
			set["startDate"] = *ref
		} else {
			unset["startDate"] = ""
		}
	}
	if update.DueDate.Set {
		if ref := update.DueDateRef(); ref != nil {
			set["dueDate"] = *ref
		} else {
			unset["dueDate"] = ""
		}
	}

	doc := bson.M{"$set": set}
	if len(unset) > 0 {
		doc["$unset"] = unset
	}
	return doc
}

func (r *mongoTaskRepository) Update(ctx context.Context, id primitive.ObjectID, update models.TaskUpdate, now time.Time) (*models.Task, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var task models.Task
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, updateDocument(update, now), opts).Decode(&task)
	if err != nil {
		if isNoDocuments(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	normalizeTask(&task)
	return &task, nil
}

func (r *mongoTaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *mongoTaskRepository) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"project": projectID})
	if err != nil {
		return 0, fmt.Errorf("delete project tasks: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoTaskRepository) UnassignMember(ctx context.Context, memberID primitive.ObjectID) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"assignedTo": memberID},
		bson.M{"$unset": bson.M{"assignedTo": ""}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("unassign member tasks: %w", err)
	}
	return result.ModifiedCount, nil
}

// AssignProjectWhereMissing matches both a missing and a null project field.
func (r *mongoTaskRepository) AssignProjectWhereMissing(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"project": nil},
		bson.M{"$set": bson.M{"project": projectID}},
	)
	if err != nil {
		return 0, fmt.Errorf("assign default project: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoTaskRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}

// normalizeTask fills in values that records written by older versions may lack.
func normalizeTask(task *models.Task) {
	task.Priority = models.ParsePriority(string(task.Priority))
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
}
