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

	"github.com/bookquest/bookquest-api/internal/core/domain"
	"github.com/bookquest/bookquest-api/internal/core/ports"
)

var _ ports.QuoteRepository = (*QuoteRepository)(nil)

type QuoteRepository struct {
	col *mongo.Collection
}

func NewQuoteRepository(db *mongo.Database) *QuoteRepository {
	return &QuoteRepository{col: db.Collection(quotesCollection)}
}

type mongoQuote struct {
	ID        primitive.ObjectID `bson:"_id"`
	VendorID  primitive.ObjectID `bson:"vendor_id"`
	RequestID primitive.ObjectID `bson:"request_id"`
	Price     float64            `bson:"price"`
	Status    string             `bson:"status"`
	Notes     string             `bson:"notes,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m *mongoQuote) toDomain() *domain.Quote {
	return &domain.Quote{
		ID:        m.ID.Hex(),
		VendorID:  m.VendorID.Hex(),
		RequestID: m.RequestID.Hex(),
		Price:     m.Price,
		Status:    domain.QuoteStatus(m.Status),
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) (*domain.Quote, error) {
	vendor, ok := parseID(q.VendorID)
	if !ok {
		return nil, fmt.Errorf("insert quote: invalid vendor id %q", q.VendorID)
	}
	request, ok := parseID(q.RequestID)
	if !ok {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoQuote{
		ID:        primitive.NewObjectID(),
		VendorID:  vendor,
		RequestID: request,
		Price:     q.Price,
		Status:    string(q.Status),
		Notes:     q.Notes,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert quote: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *QuoteRepository) FindByID(ctx context.Context, id string) (*domain.Quote, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoQuote
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuoteNotFound
		}
		return nil, fmt.Errorf("find quote: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *QuoteRepository) ListByRequest(ctx context.Context, requestID string) ([]*domain.Quote, error) {
	oid, ok := parseID(requestID)
	if !ok {
		return []*domain.Quote{}, nil
	}
	return r.find(ctx, bson.M{"request_id": oid})
}

func (r *QuoteRepository) ListByRequests(ctx context.Context, requestIDs []string) ([]*domain.Quote, error) {
	oids := parseIDs(requestIDs)
	if len(oids) == 0 {
		return []*domain.Quote{}, nil
	}
	return r.find(ctx, bson.M{"request_id": bson.M{"$in": oids}})
}

func (r *QuoteRepository) ListByVendor(ctx context.Context, vendorID string) ([]*domain.Quote, error) {
	oid, ok := parseID(vendorID)
	if !ok {
		return []*domain.Quote{}, nil
	}
	return r.find(ctx, bson.M{"vendor_id": oid})
}

// UpdateStatus moves a quote out of from in one conditional write. A second
// decision on the same quote finds no matching document and fails.
func (r *QuoteRepository) UpdateStatus(ctx context.Context, id string, from, to domain.QuoteStatus) (*domain.Quote, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrQuoteNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "status": string(from)}
	update := bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoQuote
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update quote status: %w", err)
	}

	exists, err := documentExists(ctx, r.col, oid)
	if err != nil {
		return nil, fmt.Errorf("update quote status: %w", err)
	}
	if !exists {
		return nil, domain.ErrQuoteNotFound
	}
	return nil, domain.ErrQuoteDecided
}

func (r *QuoteRepository) RejectPending(ctx context.Context, requestID, exceptID string) (int64, error) {
	reqOID, ok := parseID(requestID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"request_id": reqOID, "status": string(domain.QuotePending)}
	if except, ok := parseID(exceptID); ok {
		filter["_id"] = bson.M{"$ne": except}
	}
	update := bson.M{"$set": bson.M{"status": string(domain.QuoteRejected), "updated_at": time.Now().UTC()}}

	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("reject pending quotes: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *QuoteRepository) find(ctx context.Context, filter bson.M) ([]*domain.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("find quotes: %w", err)
	}
	var docs []mongoQuote
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode quotes: %w", err)
	}

	out := make([]*domain.Quote, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func (r *QuoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "request_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "vendor_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
