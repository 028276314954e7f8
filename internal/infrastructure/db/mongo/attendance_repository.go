package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MahimaAnade/GPS-Attendance-system/internal/core/domain"
)

const collectionAttendances = "attendances"

// AttendanceRepository implements ports.AttendanceLedger. The unique
// (subject_id, day) index makes Append atomic per subject and day.
type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendances)}
}

type attendanceDoc struct {
	ID        string             `bson:"_id"`
	SubjectID string             `bson:"subject_id"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	Timestamp time.Time          `bson:"timestamp"`
	Day       string             `bson:"day"`
	Location  domain.Coordinates `bson:"location"`
	Status    string             `bson:"status"`
}

func toAttendanceDoc(e *domain.AttendanceEvent) attendanceDoc {
	return attendanceDoc{
		ID:        e.ID,
		SubjectID: e.SubjectID,
		Email:     e.Email,
		Name:      e.Name,
		Timestamp: e.Timestamp.UTC(),
		Day:       e.Day,
		Location:  e.Location,
		Status:    string(e.Status),
	}
}

// toDomain returns the event with its timestamp in loc. Mongo decodes dates
// as UTC.
func (d attendanceDoc) toDomain(loc *time.Location) *domain.AttendanceEvent {
	ts := d.Timestamp
	if loc != nil {
		ts = ts.In(loc)
	}
	return &domain.AttendanceEvent{
		ID:        d.ID,
		SubjectID: d.SubjectID,
		Email:     d.Email,
		Name:      d.Name,
		Timestamp: ts,
		Day:       d.Day,
		Location:  d.Location,
		Status:    domain.AttendanceStatus(d.Status),
	}
}

func (r *AttendanceRepository) HasEventToday(ctx context.Context, subjectID string, ref time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start, end := domain.DayBounds(ref)
	filter := bson.M{
		"subject_id": subjectID,
		"timestamp":  bson.M{"$gte": start.UTC(), "$lte": end.UTC()},
	}

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count attendance: %w", err)
	}
	return n > 0, nil
}

func (r *AttendanceRepository) Append(ctx context.Context, e *domain.AttendanceEvent) (*domain.AttendanceEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toAttendanceDoc(e)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateAttendance
		}
		return nil, fmt.Errorf("insert attendance: %w", err)
	}
	stored := *e
	return &stored, nil
}

func (r *AttendanceRepository) FindByDateRange(ctx context.Context, start, end time.Time, status domain.AttendanceStatus) ([]*domain.AttendanceEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"timestamp": bson.M{"$gte": start.UTC(), "$lte": end.UTC()}}
	if status != "" {
		filter["status"] = string(status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	defer cur.Close(ctx)

	var docs []attendanceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}

	out := make([]*domain.AttendanceEvent, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain(start.Location()))
	}
	return out, nil
}

func (r *AttendanceRepository) LatestByUserSince(ctx context.Context, subjectID string, since time.Time) (*domain.AttendanceEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"subject_id": subjectID,
		"timestamp":  bson.M{"$gte": since.UTC()},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var d attendanceDoc
	if err := r.col.FindOne(ctx, filter, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest attendance: %w", err)
	}
	return d.toDomain(since.Location()), nil
}

func (r *AttendanceRepository) DeleteForSubjectOnDate(ctx context.Context, subjectID string, date time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start, end := domain.DayBounds(date)
	filter := bson.M{
		"subject_id": subjectID,
		"timestamp":  bson.M{"$gte": start.UTC(), "$lte": end.UTC()},
	}

	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete attendance: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the uniqueness constraint and the lookup indexes.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subject_id", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("one_per_subject_per_day"),
		},
		{Keys: bson.D{{Key: "subject_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "timestamp", Value: 1}, {Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
