package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adaste/loan-system/internal/core/domain"
)

const collectionLoans = "loans"

type LoanRepository struct {
	col *mongo.Collection
}

func NewLoanRepository(db *mongo.Database) *LoanRepository {
	return &LoanRepository{col: db.Collection(collectionLoans)}
}

type mongoLoan struct {
	ID        string  `bson:"_id"`
	Seq       int64   `bson:"seq"`
	ClientID  string  `bson:"client_id"`
	Amount    float64 `bson:"amount"`
	Term      string  `bson:"term,omitempty"`
	Purpose   string  `bson:"purpose,omitempty"`
	Status    string  `bson:"status"`
	CreatedAt int64   `bson:"created_at"`
	UpdatedAt int64   `bson:"updated_at,omitempty"`
}

func toMongoLoan(l *domain.Loan) mongoLoan {
	doc := mongoLoan{
		ID:        l.ID,
		ClientID:  l.ClientID,
		Amount:    l.Amount,
		Term:      l.Term,
		Purpose:   l.Purpose,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt.UnixMilli(),
	}
	if l.UpdatedAt != nil {
		doc.UpdatedAt = l.UpdatedAt.UnixMilli()
	}
	return doc
}

func (ml mongoLoan) toDomain() *domain.Loan {
	l := &domain.Loan{
		ID:        ml.ID,
		ClientID:  ml.ClientID,
		Amount:    ml.Amount,
		Term:      ml.Term,
		Purpose:   ml.Purpose,
		Status:    domain.LoanStatus(ml.Status),
		CreatedAt: millisToTime(ml.CreatedAt),
	}
	if ml.UpdatedAt != 0 {
		t := millisToTime(ml.UpdatedAt)
		l.UpdatedAt = &t
	}
	return l
}

func (r *LoanRepository) Create(ctx context.Context, l *domain.Loan) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count loans: %w", err)
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		l.ID = domain.NextID(domain.LoanIDPrefix, int(n)+attempt)

		doc := toMongoLoan(l)
		doc.Seq = n + int64(attempt) + 1
		_, err = r.col.InsertOne(ctx, doc)
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert loan: %w", err)
		}
	}
	l.ID = ""
	return fmt.Errorf("insert loan: no free id after %d attempts", maxIDAttempts)
}

func (r *LoanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ml mongoLoan
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, fmt.Errorf("find loan: %w", err)
	}
	return ml.toDomain(), nil
}

func (r *LoanRepository) List(ctx context.Context, f domain.LoanFilter) ([]*domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.ClientID != "" {
		filter["client_id"] = f.ClientID
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(insertionOrder))
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer cur.Close(ctx)

	loans := []*domain.Loan{}
	for cur.Next(ctx) {
		var ml mongoLoan
		if err := cur.Decode(&ml); err != nil {
			return nil, fmt.Errorf("decode loan: %w", err)
		}
		loans = append(loans, ml.toDomain())
	}
	return loans, cur.Err()
}

// UpdateStatus moves a loan from one status to another only if it is still in
// from. A miss is resolved into not-found or a status conflict.
func (r *LoanRepository) UpdateStatus(ctx context.Context, id string, from, to domain.LoanStatus, at time.Time) (*domain.Loan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ml mongoLoan
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": at.UnixMilli()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ml)
	if err == nil {
		return ml.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update loan status: %w", err)
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("update loan status: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrLoanNotFound
	}
	return nil, domain.ErrStatusConflict
}

func (r *LoanRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "client_id", Value: 1}}})
	return err
}
