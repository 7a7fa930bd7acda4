// Package mongostore implements store.Store on MongoDB. Every operation is
// a single-document write or a plain read; there are no transactions.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nikhil/togglenest/internal/database"
	"github.com/nikhil/togglenest/internal/models"
	"github.com/nikhil/togglenest/internal/store"
)

// Store is a store.Store backed by MongoDB collections.
type Store struct {
	db *database.MongoDB
}

var _ store.Store = (*Store)(nil)

func New(db *database.MongoDB) *Store {
	return &Store{db: db}
}

func (s *Store) users() *mongo.Collection      { return s.db.Collection(database.CollectionUsers) }
func (s *Store) projects() *mongo.Collection   { return s.db.Collection(database.CollectionProjects) }
func (s *Store) tasks() *mongo.Collection      { return s.db.Collection(database.CollectionTasks) }
func (s *Store) queries() *mongo.Collection    { return s.db.Collection(database.CollectionQueries) }
func (s *Store) activities() *mongo.Collection { return s.db.Collection(database.CollectionActivities) }

// userUpdate builds the upsert document. Empty optional fields are left out
// of $set so a re-submission never erases stored values.
func userUpdate(u *models.User, now time.Time) bson.M {
	set := bson.M{
		"role":               u.Role,
		"onboardingComplete": u.OnboardingComplete,
		"updatedAt":          now,
	}
	optional := map[string]string{
		"position":    u.Position,
		"teamName":    u.TeamName,
		"teamSize":    u.TeamSize,
		"projectName": u.ProjectName,
		"projectId":   u.ProjectCode,
		"memberRole":  u.MemberRole,
	}
	for field, value := range optional {
		if value != "" {
			set[field] = value
		}
	}

	created := u.CreatedAt
	if created.IsZero() {
		created = now
	}
	return bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"email": u.Email, "createdAt": created},
	}
}

func (s *Store) UpsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	now := u.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out models.User
	err := s.users().FindOneAndUpdate(ctx, bson.M{"email": u.Email}, userUpdate(u, now), opts).Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &out, nil
}

func (s *Store) GetUser(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		return nil, notFound(err, "get user")
	}
	return &u, nil
}

// exactFold matches value exactly, ignoring case.
func exactFold(value string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(value) + "$", Options: "i"}
}

func (s *Store) FindAdminByProjectCode(ctx context.Context, code string) (*models.User, error) {
	filter := bson.M{"role": models.RoleAdmin, "projectId": exactFold(code)}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	var u models.User
	if err := s.users().FindOne(ctx, filter, opts).Decode(&u); err != nil {
		return nil, notFound(err, "find admin")
	}
	return &u, nil
}

func (s *Store) ListUsersByProjectCode(ctx context.Context, code string) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	users := []models.User{}
	if err := s.findAll(ctx, s.users(), bson.M{"projectId": code}, opts, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) SetUserProject(ctx context.Context, email, code, name string) error {
	update := bson.M{"$set": bson.M{"projectId": code, "projectName": name, "updatedAt": time.Now().UTC()}}
	if _, err := s.users().UpdateOne(ctx, bson.M{"email": email}, update); err != nil {
		return fmt.Errorf("set user project: %w", err)
	}
	return nil
}

func (s *Store) InsertProject(ctx context.Context, p *models.Project) error {
	if _, err := s.projects().InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrConflict
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *Store) FindProjectByCodeFold(ctx context.Context, code string) (*models.Project, error) {
	return s.findProject(ctx, bson.M{"projectId": exactFold(code)})
}

func (s *Store) findProject(ctx context.Context, filter bson.M) (*models.Project, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	var p models.Project
	if err := s.projects().FindOne(ctx, filter, opts).Decode(&p); err != nil {
		return nil, notFound(err, "get project")
	}
	return &p, nil
}

func (s *Store) ListProjectsByAdmin(ctx context.Context, email string) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	projects := []models.Project{}
	if err := s.findAll(ctx, s.projects(), bson.M{"adminEmail": email}, opts, &projects); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Store) ListProjectsForUser(ctx context.Context, email, excludeCode string) ([]models.Project, error) {
	filter := bson.M{
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"members": email},
				bson.M{"adminEmail": email},
			}},
			bson.M{"projectId": bson.M{"$ne": excludeCode}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	projects := []models.Project{}
	if err := s.findAll(ctx, s.projects(), filter, opts, &projects); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Store) InsertTask(ctx context.Context, t *models.Task) error {
	if _, err := s.tasks().InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) ListTasks(ctx context.Context, code string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	tasks := []models.Task{}
	if err := s.findAll(ctx, s.tasks(), bson.M{"projectId": code}, opts, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id, status string) (*models.Task, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Task
	err := s.tasks().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&t)
	if err != nil {
		return nil, notFound(err, "update task")
	}
	return &t, nil
}

func (s *Store) InsertQuery(ctx context.Context, q *models.Query) error {
	if _, err := s.queries().InsertOne(ctx, q); err != nil {
		return fmt.Errorf("insert query: %w", err)
	}
	return nil
}

func (s *Store) ListQueries(ctx context.Context, code string) ([]models.Query, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	queries := []models.Query{}
	if err := s.findAll(ctx, s.queries(), bson.M{"projectId": code}, opts, &queries); err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	return queries, nil
}

// toggleResolvedPipeline flips isResolved server-side so concurrent toggles
// never read a stale value.
func toggleResolvedPipeline(now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "isResolved", Value: bson.D{{Key: "$not", Value: bson.A{"$isResolved"}}}},
			{Key: "updatedAt", Value: now},
		}}},
	}
}

func (s *Store) ToggleQueryResolved(ctx context.Context, id string) (*models.Query, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var q models.Query
	err := s.queries().FindOneAndUpdate(ctx, bson.M{"_id": id}, toggleResolvedPipeline(time.Now().UTC()), opts).Decode(&q)
	if err != nil {
		return nil, notFound(err, "toggle query")
	}
	return &q, nil
}

func (s *Store) InsertActivity(ctx context.Context, a *models.Activity) error {
	if _, err := s.activities().InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (s *Store) ListActivities(ctx context.Context, code string, limit int) ([]models.Activity, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))
	activities := []models.Activity{}
	if err := s.findAll(ctx, s.activities(), bson.M{"projectId": code}, opts, &activities); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close(ctx)
}

func (s *Store) findAll(ctx context.Context, coll *mongo.Collection, filter any, opts *options.FindOptions, out any) error {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func notFound(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
