package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/pkg/listquery"
)

const vaccinesCollection = "vaccines"

// queryFieldKeys maps grammar column names to their bson keys. Filter and
// sort fields outside this table are rejected by the repository.
var queryFieldKeys = map[string]string{
	"name":         "name",
	"manufacturer": "manufacturer",
	"disease":      "disease",
	"centerName":   "center_name",
	"price":        "price_vnd",
	"createdAt":    "created_at",
}

type VaccineRepository struct {
	coll *mongo.Collection
}

func NewVaccineRepository(db *mongo.Database) *VaccineRepository {
	return &VaccineRepository{coll: db.Collection(vaccinesCollection)}
}

func (r *VaccineRepository) FindByID(ctx context.Context, id string) (*domain.Vaccine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrVaccineNotFound
	}

	var doc vaccineDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVaccineNotFound
		}
		return nil, fmt.Errorf("find vaccine: %w", err)
	}
	return doc.toDomain(), nil
}

// List translates the parsed grammar query into a Mongo filter: each contains
// predicate becomes a case-insensitive regex, AND-joined.
func (r *VaccineRepository) List(ctx context.Context, q listquery.Query) ([]*domain.Vaccine, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	var preds []bson.M
	for _, p := range q.Filters {
		key, ok := queryFieldKeys[p.Field]
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown filter field %q", listquery.ErrInvalid, p.Field)
		}
		preds = append(preds, bson.M{key: bson.M{
			"$regex":   regexp.QuoteMeta(p.Text),
			"$options": "i",
		}})
	}
	if len(preds) > 0 {
		filter["$and"] = preds
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count vaccines: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((q.Page - 1) * q.Size)).
		SetLimit(int64(q.Size))
	if q.HasSort() {
		key, ok := queryFieldKeys[q.SortField]
		if !ok {
			return nil, 0, fmt.Errorf("%w: unknown sort field %q", listquery.ErrInvalid, q.SortField)
		}
		dir := 1
		if !q.SortAsc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: key, Value: dir}})
	} else {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list vaccines: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Vaccine
	for cur.Next(ctx) {
		var doc vaccineDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode vaccine: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list vaccines: %w", err)
	}
	return out, total, nil
}

func (r *VaccineRepository) Create(ctx context.Context, v *domain.Vaccine) (*domain.Vaccine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := fromDomain(v)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert vaccine: %w", err)
	}
	created := *v
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *VaccineRepository) Update(ctx context.Context, v *domain.Vaccine) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(v.ID)
	if err != nil {
		return domain.ErrVaccineNotFound
	}

	doc := fromDomain(v)
	doc.ID = primitive.NilObjectID
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update vaccine: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVaccineNotFound
	}
	return nil
}

func (r *VaccineRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrVaccineNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete vaccine: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVaccineNotFound
	}
	return nil
}

// EnsureIndexes creates indexes backing the filterable columns.
func (r *VaccineRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "manufacturer", Value: 1}}},
		{Keys: bson.D{{Key: "disease", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

type vaccineDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Manufacturer string             `bson:"manufacturer"`
	Disease      string             `bson:"disease"`
	PriceVnd     int64              `bson:"price_vnd"`
	Doses        int                `bson:"doses"`
	Description  string             `bson:"description,omitempty"`
	CenterName   string             `bson:"center_name,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func fromDomain(v *domain.Vaccine) vaccineDoc {
	doc := vaccineDoc{
		Name:         v.Name,
		Manufacturer: v.Manufacturer,
		Disease:      v.Disease,
		PriceVnd:     v.PriceVnd,
		Doses:        v.Doses,
		Description:  v.Description,
		CenterName:   v.CenterName,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
	if oid, err := primitive.ObjectIDFromHex(v.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d vaccineDoc) toDomain() *domain.Vaccine {
	return &domain.Vaccine{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Manufacturer: d.Manufacturer,
		Disease:      d.Disease,
		PriceVnd:     d.PriceVnd,
		Doses:        d.Doses,
		Description:  d.Description,
		CenterName:   d.CenterName,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}
