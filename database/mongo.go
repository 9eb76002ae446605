package database

import (
	"context"
	"fmt"

	"budgeto/config"
	"budgeto/logging"
	"budgeto/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo 持有 MongoDB 客户端及业务数据库
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// OpenMongo 连接 MongoDB 并建立索引
func OpenMongo(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	c := cfg.Database.Mongo
	if c.URI == "" {
		return nil, fmt.Errorf("未配置 MongoDB 连接串（database.mongo.uri / MONGODB_URI）")
	}

	opts := options.Client().ApplyURI(c.URI)
	if c.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(c.MaxPoolSize)
	}

	connectCtx := ctx
	if c.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, c.ConnectTimeout)
		defer cancel()
	}

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("连接 MongoDB 失败: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDB ping 失败: %w", err)
	}

	db := client.Database(c.DBName)
	if err := EnsureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("创建 MongoDB 索引失败: %w", err)
	}

	logging.Logger.Info("MongoDB 连接成功")
	return &Mongo{Client: client, DB: db}, nil
}

// EnsureIndexes 建立唯一索引与排序索引
// users.email 唯一、budgets (userId, month) 唯一是存储层的一致性保证
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(models.User{}.TableName()).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	if _, err := db.Collection(models.Budget{}.TableName()).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "month", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	for _, kind := range []models.LedgerKind{models.KindExpense, models.KindIncome} {
		if _, err := db.Collection(kind.TableName()).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "date", Value: -1}},
		}); err != nil {
			return err
		}
	}
	return nil
}

// Close 断开连接
func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
