package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticket-marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrAlreadyRequested means the email already has a pending seller request.
var ErrAlreadyRequested = errors.New("seller request already exists")

// UserStore covers the account and seller-request glue around the core.
type UserStore interface {
	Upsert(ctx context.Context, user *models.User) (created bool, err error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListOthers(ctx context.Context, excludeEmail string) ([]models.User, error)
	UpdateRole(ctx context.Context, email, role string) error
	CreateSellerRequest(ctx context.Context, email string) error
	ListSellerRequests(ctx context.Context) ([]models.SellerRequest, error)
	DeleteSellerRequest(ctx context.Context, email string) error
}

// MongoUserRepository implements UserStore on the users and seller_requests
// collections.
type MongoUserRepository struct {
	users    *mongo.Collection
	requests *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		users:    db.Collection("users"),
		requests: db.Collection("seller_requests"),
	}
}

// Upsert saves a new user with the customer role, or refreshes last_loggedin
// for a returning one.
func (r *MongoUserRepository) Upsert(ctx context.Context, user *models.User) (bool, error) {
	now := time.Now().UTC()

	var existing models.User
	err := r.users.FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing)
	if err == nil {
		_, err = r.users.UpdateOne(ctx,
			bson.M{"email": user.Email},
			bson.M{"$set": bson.M{"last_loggedin": now}},
		)
		if err != nil {
			return false, fmt.Errorf("touch user: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return false, fmt.Errorf("find user: %w", err)
	}

	user.Role = models.RoleCustomer
	user.CreatedAt = now
	user.LastLoggedIn = now
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}
	return true, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) ListOthers(ctx context.Context, excludeEmail string) ([]models.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{"email": bson.M{"$ne": excludeEmail}})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) UpdateRole(ctx context.Context, email, role string) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) CreateSellerRequest(ctx context.Context, email string) error {
	err := r.requests.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return ErrAlreadyRequested
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("find seller request: %w", err)
	}

	req := models.SellerRequest{Email: email, RequestedAt: time.Now().UTC()}
	if _, err := r.requests.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("insert seller request: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) ListSellerRequests(ctx context.Context) ([]models.SellerRequest, error) {
	cursor, err := r.requests.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list seller requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.SellerRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("decode seller requests: %w", err)
	}
	return requests, nil
}

func (r *MongoUserRepository) DeleteSellerRequest(ctx context.Context, email string) error {
	if _, err := r.requests.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return fmt.Errorf("delete seller request: %w", err)
	}
	return nil
}
