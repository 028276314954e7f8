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

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/biometric"
	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
)

const collectionSubjects = "subjects"

// SubjectRepository stores registered subjects. It serves both the credential
// flow and the attendance roster.
type SubjectRepository struct {
	col *mongo.Collection
}

func NewSubjectRepository(db *mongo.Database) *SubjectRepository {
	return &SubjectRepository{col: db.Collection(collectionSubjects)}
}

type subjectDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email"`
	PasswordHash   string             `bson:"password_hash"`
	FaceDescriptor []float64          `bson:"face_descriptor,omitempty"`
	Role           string             `bson:"role"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (d subjectDoc) toDomain() *domain.Subject {
	s := &domain.Subject{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if len(d.FaceDescriptor) > 0 {
		s.FaceDescriptor = biometric.Vector(d.FaceDescriptor)
	}
	return s
}

// Create inserts a new subject. A taken email yields domain.ErrSubjectExists.
func (r *SubjectRepository) Create(ctx context.Context, s *domain.Subject) (*domain.Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	doc := subjectDoc{
		Name:           s.Name,
		Email:          s.Email,
		PasswordHash:   s.PasswordHash,
		FaceDescriptor: []float64(s.FaceDescriptor),
		Role:           s.Role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSubjectExists
		}
		return nil, fmt.Errorf("insert subject: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// FindByEmail looks a subject up by its login email.
func (r *SubjectRepository) FindByEmail(ctx context.Context, email string) (*domain.Subject, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindSubject looks a subject up by its hex ObjectID.
func (r *SubjectRepository) FindSubject(ctx context.Context, id string) (*domain.Subject, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidSubjectID
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// ListSubjects returns the subjects with the given role ordered by name, or
// everyone when role is empty.
func (r *SubjectRepository) ListSubjects(ctx context.Context, role string) ([]*domain.Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"password_hash": 0})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer cur.Close(ctx)

	var docs []subjectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode subjects: %w", err)
	}

	out := make([]*domain.Subject, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// EnsureIndexes creates the unique email index and the role index.
func (r *SubjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *SubjectRepository) findOne(ctx context.Context, filter bson.M) (*domain.Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d subjectDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("find subject: %w", err)
	}
	return d.toDomain(), nil
}
