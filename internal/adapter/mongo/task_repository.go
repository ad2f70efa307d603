package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

const tasksCollection = "tasks"

type TaskRepository struct {
	collection *mongo.Collection
}

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description *string            `bson:"description,omitempty"`
	Completed   bool               `bson:"completed"`
	User        string             `bson:"user"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{collection: db.Collection(tasksCollection)}
}

// EnsureIndexes creates the index backing the owner-scoped, newest-first list.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("user_createdAt"),
	})
	if err != nil {
		return fmt.Errorf("create tasks index: %w", err)
	}
	return nil
}

func (r *TaskRepository) ListTasks(ctx context.Context, ownerID string, filter domain.TaskFilter) ([]domain.Task, error) {
	query := bson.M{"user": ownerID}
	if completed := filter.Completed(); completed != nil {
		query["completed"] = *completed
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, mapDocumentToDomainTask(doc))
	}
	return tasks, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, ownerID, taskID string) (domain.Task, error) {
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	var doc taskDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": id, "user": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("find task: %w", err)
	}
	return mapDocumentToDomainTask(doc), nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	doc := mapDomainTaskToDocument(task)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return mapDocumentToDomainTask(doc), nil
}

// UpdateTask applies the present fields in a single findOneAndUpdate.
// Concurrent writers resolve as last write wins.
func (r *TaskRepository) UpdateTask(ctx context.Context, ownerID, taskID string, input domain.UpdateTaskInput, updatedAt time.Time) (domain.Task, error) {
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return domain.Task{}, domain.ErrTaskNotFound
	}

	set := bson.M{"updatedAt": updatedAt}
	update := bson.M{}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Completed != nil {
		set["completed"] = *input.Completed
	}
	if input.DescriptionSet {
		if input.Description == nil {
			update["$unset"] = bson.M{"description": ""}
		} else {
			set["description"] = *input.Description
		}
	}
	update["$set"] = set

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "user": ownerID}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("update task: %w", err)
	}
	return mapDocumentToDomainTask(doc), nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	id, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user": ownerID})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}

func mapDocumentToDomainTask(doc taskDocument) domain.Task {
	task := domain.Task{
		ID:        doc.ID.Hex(),
		Title:     doc.Title,
		Completed: doc.Completed,
		OwnerID:   doc.User,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}
	if doc.Description != nil {
		value := *doc.Description
		task.Description = &value
	}
	return task
}

func mapDomainTaskToDocument(task domain.Task) taskDocument {
	doc := taskDocument{
		Title:     task.Title,
		Completed: task.Completed,
		User:      task.OwnerID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
	if task.Description != nil {
		value := *task.Description
		doc.Description = &value
	}
	return doc
}
