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
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// TicketStore is the inventory store contract. DecrementQuantity is the only
// mutation the reconciliation core performs on tickets.
type TicketStore interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	FindAll(ctx context.Context) ([]models.Ticket, error)
	FindBySeller(ctx context.Context, email string) ([]models.Ticket, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	DecrementQuantity(ctx context.Context, id uuid.UUID, quantity int) error
}

// MongoTicketRepository implements TicketStore on a MongoDB collection.
type MongoTicketRepository struct {
	collection *mongo.Collection
}

func NewMongoTicketRepository(db *mongo.Database) *MongoTicketRepository {
	return &MongoTicketRepository{collection: db.Collection("tickets")}
}

func (r *MongoTicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	if _, err := r.collection.InsertOne(ctx, ticket); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *MongoTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return &ticket, nil
}

func (r *MongoTicketRepository) FindAll(ctx context.Context) ([]models.Ticket, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoTicketRepository) FindBySeller(ctx context.Context, email string) ([]models.Ticket, error) {
	return r.find(ctx, bson.M{"seller.email": email})
}

func (r *MongoTicketRepository) find(ctx context.Context, filter bson.M) ([]models.Ticket, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find tickets: %w", err)
	}
	defer cursor.Close(ctx)

	var tickets []models.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}
	return tickets, nil
}

func (r *MongoTicketRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range updates {
		set[k] = v
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update ticket: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementQuantity applies a conditional decrement: it commits only while the
// remaining quantity stays non-negative. Of N concurrent calls each either
// fully applies or is rejected with ErrInsufficientStock; quantity can never
// cross zero.
func (r *MongoTicketRepository) DecrementQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("invalid decrement quantity %d", quantity)
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "quantity": bson.M{"$gte": quantity}},
		bson.M{
			"$inc": bson.M{"quantity": -quantity},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("decrement ticket quantity: %w", err)
	}
	if res.MatchedCount == 0 {
		// The filter missed: either the ticket is gone or the stock is short.
		if _, ferr := r.FindByID(ctx, id); errors.Is(ferr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
