package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plan-marketplace/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, role model.Role, page Pagination) ([]*model.User, int64, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error
	SetRoleStatus(ctx context.Context, id primitive.ObjectID, role model.Role, status model.ApprovalStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByRole(ctx context.Context) (map[model.Role]int64, error)
}

type userRepoImpl struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepoImpl{
		collection: db.Collection(usersCollection),
	}
}

func (r *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", translateErr(err))
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *userRepoImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (r *userRepoImpl) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (r *userRepoImpl) List(ctx context.Context, role model.Role, page Pagination) ([]*model.User, int64, error) {
	page = page.Normalize()
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit)).
		SetProjection(bson.M{"passwordHash": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	users := make([]*model.User, 0, page.Limit)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}
	return users, total, nil
}

func (r *userRepoImpl) UpdateProfile(ctx context.Context, user *model.User) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{
			"name":        user.Name,
			"phone":       user.Phone,
			"companyName": user.CompanyName,
			"profession":  user.Profession,
			"address":     user.Address,
			"updatedAt":   time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepoImpl) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"passwordHash": hash, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepoImpl) SetRoleStatus(ctx context.Context, id primitive.ObjectID, role model.Role, status model.ApprovalStatus) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"role":      role,
			"status":    status,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepoImpl) CountByRole(ctx context.Context) (map[model.Role]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate users by role: %w", err)
	}

	var rows []struct {
		Role  model.Role `bson:"_id"`
		Count int64      `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode users by role: %w", err)
	}

	counts := make(map[model.Role]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}
