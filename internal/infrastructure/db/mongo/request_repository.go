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

var _ ports.RequestRepository = (*RequestRepository)(nil)

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(requestsCollection)}
}

type mongoRequest struct {
	ID        primitive.ObjectID `bson:"_id"`
	OwnerID   primitive.ObjectID `bson:"owner_id"`
	Books     []domain.LineItem  `bson:"books"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m *mongoRequest) toDomain() *domain.BookRequest {
	books := m.Books
	if books == nil {
		books = []domain.LineItem{}
	}
	return &domain.BookRequest{
		ID:        m.ID.Hex(),
		OwnerID:   m.OwnerID.Hex(),
		Books:     books,
		Status:    domain.RequestStatus(m.Status),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

// Create inserts a new request document.
func (r *RequestRepository) Create(ctx context.Context, req *domain.BookRequest) (*domain.BookRequest, error) {
	owner, ok := parseID(req.OwnerID)
	if !ok {
		return nil, fmt.Errorf("insert request: invalid owner id %q", req.OwnerID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRequest{
		ID:        primitive.NewObjectID(),
		OwnerID:   owner,
		Books:     req.Books,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.BookRequest, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoRequest
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("find request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *RequestRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.BookRequest, error) {
	oids := parseIDs(ids)
	if len(oids) == 0 {
		return []*domain.BookRequest{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

// ListByStatus returns requests in status, newest first.
func (r *RequestRepository) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.BookRequest, error) {
	return r.find(ctx, bson.M{"status": string(status)})
}

// ListByOwner returns every request created by ownerID, newest first.
func (r *RequestRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.BookRequest, error) {
	owner, ok := parseID(ownerID)
	if !ok {
		return []*domain.BookRequest{}, nil
	}
	return r.find(ctx, bson.M{"owner_id": owner})
}

// UpdateStatus applies the transition only while the stored status still
// equals from, so concurrent transitions cannot both succeed.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus) (*domain.BookRequest, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrRequestNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "status": string(from)}
	update := bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoRequest
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update request status: %w", err)
	}

	exists, err := documentExists(ctx, r.col, oid)
	if err != nil {
		return nil, fmt.Errorf("update request status: %w", err)
	}
	if !exists {
		return nil, domain.ErrRequestNotFound
	}
	return nil, domain.ErrRequestClosed
}

func (r *RequestRepository) find(ctx context.Context, filter bson.M) ([]*domain.BookRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, fmt.Errorf("find requests: %w", err)
	}
	var docs []mongoRequest
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}

	out := make([]*domain.BookRequest, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// EnsureIndexes creates the indexes backing the open feed and owner listings.
func (r *RequestRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// documentExists reports whether a document with oid is present in col.
func documentExists(ctx context.Context, col *mongo.Collection, oid primitive.ObjectID) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := col.FindOne(ctx, bson.M{"_id": oid}, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return err == nil, err
}
