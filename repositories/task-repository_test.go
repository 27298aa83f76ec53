package repositories

import (
	"testing"
	"time"

	"taskboard/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestQueryFilter(t *testing.T) {
	status := models.StatusDone
	project := primitive.NewObjectID()
	member := primitive.NewObjectID()

	tests := []struct {
		name  string
		query models.TaskQuery
		want  bson.M
	}{
		{"empty", models.TaskQuery{}, bson.M{}},
		{"status only", models.TaskQuery{Status: &status}, bson.M{"status": status}},
		{"all", models.TaskQuery{Status: &status, Project: &project, AssignedTo: &member},
			bson.M{"status": status, "project": project, "assignedTo": member}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queryFilter(tt.query))
		})
	}
}

func TestUpdateDocument(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	member := primitive.NewObjectID()

	t.Run("status only touches status and updatedAt", func(t *testing.T) {
		doc := updateDocument(models.StatusUpdate(models.StatusDone), now)
		assert.Equal(t, bson.M{"$set": bson.M{"status": models.StatusDone, "updatedAt": now}}, doc)
	})

	t.Run("null due date is unset", func(t *testing.T) {
		doc := updateDocument(models.TaskUpdate{DueDate: models.Null[models.Timestamp]()}, now)
		assert.Equal(t, bson.M{"dueDate": ""}, doc["$unset"])
		assert.NotContains(t, doc["$set"], "dueDate")
	})

	t.Run("assignee set and project cleared", func(t *testing.T) {
		doc := updateDocument(models.TaskUpdate{
			AssignedTo: models.Value(member),
			Project:    models.Value(primitive.NilObjectID),
		}, now)
		assert.Equal(t, member, doc["$set"].(bson.M)["assignedTo"])
		assert.Equal(t, bson.M{"project": ""}, doc["$unset"])
	})

	t.Run("nil tags stored as empty list", func(t *testing.T) {
		doc := updateDocument(models.TaskUpdate{Tags: models.Some[[]string](nil)}, now)
		assert.Equal(t, []string{}, doc["$set"].(bson.M)["tags"])
	})
}

func TestNormalizeTask(t *testing.T) {
	task := models.Task{Priority: "Haute"}
	normalizeTask(&task)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Equal(t, []string{}, task.Tags)

	legacy := models.Task{}
	normalizeTask(&legacy)
	assert.Equal(t, models.PriorityMedium, legacy.Priority)
}
