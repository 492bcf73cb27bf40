package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-marketplace/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateTransaction means another order already holds the
	// transaction id, enforced by the unique index on orders.transaction_id.
	ErrDuplicateTransaction = errors.New("transaction id already recorded")

	// ErrPaidImmutable rejects a manual edit that would regress a paid order.
	ErrPaidImmutable = errors.New("paid order status cannot be changed")
)

// OrderStore is the order store contract. MarkPaid is the linearization point
// of the pre-created order flow: of N concurrent calls for the same order,
// exactly one observes won == true.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error)
	FindByCustomer(ctx context.Context, email string) ([]models.Order, error)
	FindBySeller(ctx context.Context, email string) ([]models.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (won bool, err error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MongoOrderRepository implements OrderStore on a MongoDB collection.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Collection("orders")}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoOrderRepository) FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"transaction_id": transactionID})
}

func (r *MongoOrderRepository) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByCustomer(ctx context.Context, email string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"customer": email})
}

func (r *MongoOrderRepository) FindBySeller(ctx context.Context, email string) ([]models.Order, error) {
	return r.find(ctx, bson.M{"seller.email": email})
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// MarkPaid conditionally transitions the order pending -> paid, recording the
// transaction id. won reports whether this call performed the transition; a
// repeated delivery of the same confirmation sees won == false and must not
// decrement inventory again.
func (r *MongoOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (bool, error) {
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.OrderStatusPending},
		bson.M{"$set": bson.M{
			"status":         models.OrderStatusPaid,
			"transaction_id": transactionID,
			"paid_at":        now,
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, ErrDuplicateTransaction
		}
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// UpdateStatus is the manual edit path. It refuses to touch an order that is
// already paid: payment reconciliation is the only writer of the paid state
// and it is never reversed.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": models.OrderStatusPaid}},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, ferr := r.FindByID(ctx, id); errors.Is(ferr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrPaidImmutable
	}
	return nil
}

func (r *MongoOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
