package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adaste/loan-system/internal/core/domain"
)

const (
	collectionUsers = "users"

	emailIndexName = "email_unique"
	adminIndexName = "one_admin"

	// maxIDAttempts bounds the count+1 allocation loop when concurrent inserts
	// race for the same id.
	maxIDAttempts = 5
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoInvestment struct {
	Amount    float64 `bson:"amount"`
	CreatedAt int64   `bson:"created_at"`
}

type mongoUser struct {
	ID           string            `bson:"_id"`
	Seq          int64             `bson:"seq"`
	Name         string            `bson:"name"`
	Email        string            `bson:"email"`
	Phone        string            `bson:"phone,omitempty"`
	PasswordHash string            `bson:"password_hash,omitempty"`
	Role         string            `bson:"role"`
	LoanBalance  float64           `bson:"loan_balance"`
	Investments  []mongoInvestment `bson:"investments,omitempty"`
	CreatedAt    int64             `bson:"created_at"`
	UpdatedAt    int64             `bson:"updated_at,omitempty"`
}

func toMongoUser(u *domain.User) mongoUser {
	doc := mongoUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		LoanBalance:  u.LoanBalance,
		CreatedAt:    u.CreatedAt.UnixMilli(),
	}
	if u.UpdatedAt != nil {
		doc.UpdatedAt = u.UpdatedAt.UnixMilli()
	}
	for _, inv := range u.Investments {
		doc.Investments = append(doc.Investments, mongoInvestment{Amount: inv.Amount, CreatedAt: inv.CreatedAt.UnixMilli()})
	}
	return doc
}

func (mu mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:           mu.ID,
		Name:         mu.Name,
		Email:        mu.Email,
		Phone:        mu.Phone,
		PasswordHash: mu.PasswordHash,
		Role:         domain.Role(mu.Role),
		LoanBalance:  mu.LoanBalance,
		CreatedAt:    millisToTime(mu.CreatedAt),
	}
	if mu.UpdatedAt != 0 {
		t := millisToTime(mu.UpdatedAt)
		u.UpdatedAt = &t
	}
	for _, inv := range mu.Investments {
		u.Investments = append(u.Investments, domain.Investment{Amount: inv.Amount, CreatedAt: millisToTime(inv.CreatedAt)})
	}
	return u
}

// Create assigns the next id for the user's role and inserts the document.
// Email uniqueness and the single-admin rule are enforced by indexes.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	user.Email = domain.NormalizeEmail(user.Email)

	n, err := r.col.CountDocuments(ctx, bson.M{"role": string(user.Role)})
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		user.ID = domain.NextID(user.Role.IDPrefix(), int(n)+attempt)

		doc := toMongoUser(user)
		doc.Seq = n + int64(attempt) + 1
		_, err = r.col.InsertOne(ctx, doc)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert user: %w", err)
		}
		switch {
		case strings.Contains(err.Error(), emailIndexName):
			return domain.ErrUserExists
		case strings.Contains(err.Error(), adminIndexName):
			return domain.ErrAdminExists
		}
		// _id collision: another writer took this id, try the next one.
	}
	user.ID = ""
	return fmt.Errorf("insert user: no free id after %d attempts", maxIDAttempts)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"role": string(role)}, options.Find().SetSort(insertionOrder))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	users := []*domain.User{}
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	return users, cur.Err()
}

func (r *UserRepository) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"role": string(role)})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return int(n), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().UnixMilli()}})
}

// AdjustLoanBalance applies delta atomically with $inc.
func (r *UserRepository) AdjustLoanBalance(ctx context.Context, id string, delta float64) error {
	return r.update(ctx, id, bson.M{
		"$inc": bson.M{"loan_balance": delta},
		"$set": bson.M{"updated_at": time.Now().UnixMilli()},
	})
}

func (r *UserRepository) update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index and the partial index that
// admits at most one admin.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(emailIndexName),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(adminIndexName).
				SetPartialFilterExpression(bson.M{"role": string(domain.RoleAdmin)}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// Timestamps are stored as Unix milliseconds.
func millisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// insertionOrder sorts by creation time. Ids are allocated in sequence, so
// "seq" breaks ties between documents created in the same millisecond.
var insertionOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "seq", Value: 1}}
