package store

import (
	"context"
	"errors"
	"time"

	"budgeto/apperr"
	"budgeto/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoStores 基于同一个 *mongo.Database 创建全部存储
func NewMongoStores(db *mongo.Database) Stores {
	return Stores{
		Users:   NewMongoUserStore(db),
		Ledger:  NewMongoLedgerStore(db),
		Budgets: NewMongoBudgetStore(db),
	}
}

// MongoUserStore 用户存储（MongoDB）
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(models.User{}.TableName())}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	if user.ID == "" {
		user.ID = newID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.DuplicateEmail()
		}
		return apperr.Storage("Failed to create user", err)
	}
	return nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("Failed to fetch user", err)
	}
	return &user, nil
}

// MongoLedgerStore 账目存储（MongoDB），支出与收入分集合
type MongoLedgerStore struct {
	db *mongo.Database
}

func NewMongoLedgerStore(db *mongo.Database) *MongoLedgerStore {
	return &MongoLedgerStore{db: db}
}

func (s *MongoLedgerStore) Create(ctx context.Context, kind models.LedgerKind, entry *models.Entry) error {
	stampEntry(entry, time.Now())
	if _, err := s.db.Collection(kind.TableName()).InsertOne(ctx, entry); err != nil {
		return apperr.Storage("Failed to add "+kind.Label(), err)
	}
	return nil
}

func (s *MongoLedgerStore) ListRecent(ctx context.Context, kind models.LedgerKind, limit int) ([]models.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.db.Collection(kind.TableName()).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.Storage("Failed to fetch "+kind.TableName(), err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.Entry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, apperr.Storage("Failed to fetch "+kind.TableName(), err)
	}
	return entries, nil
}

func (s *MongoLedgerStore) SumBetween(ctx context.Context, kind models.LedgerKind, start, end time.Time) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date": bson.M{"$gte": start, "$lt": end}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cursor, err := s.db.Collection(kind.TableName()).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, apperr.Storage("Failed to sum "+kind.TableName(), err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, apperr.Storage("Failed to sum "+kind.TableName(), err)
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, apperr.Storage("Failed to sum "+kind.TableName(), err)
	}
	return result.Total, nil
}

// MongoBudgetStore 预算存储（MongoDB）
type MongoBudgetStore struct {
	coll *mongo.Collection
}

func NewMongoBudgetStore(db *mongo.Database) *MongoBudgetStore {
	return &MongoBudgetStore{coll: db.Collection(models.Budget{}.TableName())}
}

// Upsert 单条 findAndModify 完成插入或更新，(userId, month) 唯一索引兜底
func (s *MongoBudgetStore) Upsert(ctx context.Context, userID, month string, amount float64) (*models.Budget, error) {
	now := time.Now()
	filter := bson.M{"userId": userID, "month": month}
	update := bson.M{
		"$set": bson.M{"amount": amount, "updatedAt": now},
		"$setOnInsert": bson.M{
			"_id":       newID(),
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var budget models.Budget
	if err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&budget); err != nil {
		return nil, apperr.Storage("Failed to save budget", err)
	}
	return &budget, nil
}

func (s *MongoBudgetStore) ListByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	opts := options.Find().SetSort(bson.D{{Key: "month", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, apperr.Storage("Failed to fetch budgets", err)
	}
	defer cursor.Close(ctx)

	budgets := make([]models.Budget, 0)
	if err := cursor.All(ctx, &budgets); err != nil {
		return nil, apperr.Storage("Failed to fetch budgets", err)
	}
	return budgets, nil
}

func (s *MongoBudgetStore) FindByUserAndMonth(ctx context.Context, userID, month string) (*models.Budget, error) {
	var budget models.Budget
	err := s.coll.FindOne(ctx, bson.M{"userId": userID, "month": month}).Decode(&budget)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("Failed to fetch budget", err)
	}
	return &budget, nil
}
