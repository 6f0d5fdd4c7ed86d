package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/arsn/dossier-tracking/internal/core/audit"
	"github.com/arsn/dossier-tracking/internal/core/domain"
	"github.com/arsn/dossier-tracking/internal/core/ports"
)

const (
	collectionDossiers = "dossiers"
	// maxCASAttempts bounds the optimistic retry loop of Update and Delete.
	maxCASAttempts = 5
)

// dossierDoc is the stored form of a dossier. Version is bumped on every
// write and guards the compare-and-swap in Update and Delete.
type dossierDoc struct {
	domain.Dossier `bson:",inline"`
	Version        int64 `bson:"version"`
}

// DossierRepository implements ports.DossierRepository on MongoDB. History
// entries are embedded in the dossier document.
type DossierRepository struct {
	col      *mongo.Collection
	appender *audit.Appender
	mode     ports.DeleteMode
}

func NewDossierRepository(db *mongo.Database, appender *audit.Appender, mode ports.DeleteMode) *DossierRepository {
	if mode == "" {
		mode = ports.DeleteTombstone
	}
	return &DossierRepository{
		col:      db.Collection(collectionDossiers),
		appender: appender,
		mode:     mode,
	}
}

var _ ports.DossierRepository = (*DossierRepository)(nil)

// activeFilter matches a live (not tombstoned) dossier by id.
func activeFilter(id string) bson.M {
	return bson.M{"_id": id, "deleted": bson.M{"$ne": true}}
}

// Create inserts a new dossier document with its creation entry.
func (r *DossierRepository) Create(ctx context.Context, d *domain.Dossier, actorID string) (*domain.Dossier, error) {
	if err := d.CheckInvariants(); err != nil {
		return nil, fmt.Errorf("create dossier: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := dossierDoc{Dossier: *d.Clone(), Version: 1}
	doc.ID = uuid.NewString()
	doc.CreatedBy = actorID
	doc.Deleted = false
	doc.DeletedAt = nil

	entry := r.appender.Created(actorID)
	doc.CreatedAt = entry.Timestamp
	doc.UpdatedAt = entry.Timestamp
	doc.History = []domain.HistoryEntry{entry}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert dossier: %w", err)
	}
	return doc.Dossier.Clone(), nil
}

// Update reads the dossier, applies the patch and writes it back only if no
// one else wrote in between. A status change pushes its history entry in the
// same update.
func (r *DossierRepository) Update(ctx context.Context, id string, patch domain.DossierPatch, actorID string) (*domain.Dossier, *domain.HistoryEntry, error) {
	if err := patch.Validate(); err != nil {
		return nil, nil, fmt.Errorf("update dossier: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		current, err := r.load(ctx, id)
		if err != nil {
			return nil, nil, err
		}

		next := current.Dossier.Clone()
		from, changed, err := next.Apply(patch)
		if err != nil {
			return nil, nil, fmt.Errorf("update dossier: %w", err)
		}

		var entry *domain.HistoryEntry
		if changed {
			e := r.appender.StatusChanged(actorID, from, next.Status)
			entry = &e
			next.UpdatedAt = e.Timestamp
			next.History = append(next.History, e)
		} else {
			next.UpdatedAt = r.appender.Stamp()
		}

		update := bson.M{
			"$set": bson.M{
				"number":       next.Number,
				"date":         next.Date,
				"sender":       next.Sender,
				"subject":      next.Subject,
				"services":     next.Services,
				"status":       next.Status,
				"observations": next.Observations,
				"note":         next.Note,
				"updated_at":   next.UpdatedAt,
			},
			"$inc": bson.M{"version": 1},
		}
		if entry != nil {
			update["$push"] = bson.M{"history": *entry}
		}

		ok, err := r.swap(ctx, id, current.Version, update)
		if err != nil {
			return nil, nil, fmt.Errorf("update dossier: %w", err)
		}
		if ok {
			return next, entry, nil
		}
	}
	return nil, nil, domain.ErrConcurrentModification
}

// Delete removes the document (hard mode) or flags it deleted and pushes a
// deletion entry (tombstone mode).
func (r *DossierRepository) Delete(ctx context.Context, id, actorID string) (*domain.Dossier, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if r.mode == ports.DeleteHard {
		var doc dossierDoc
		err := r.col.FindOneAndDelete(ctx, activeFilter(id)).Decode(&doc)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrDossierNotFound
			}
			return nil, fmt.Errorf("delete dossier: %w", err)
		}
		return &doc.Dossier, nil
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		current, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}

		entry := r.appender.Deleted(actorID)
		update := bson.M{
			"$set": bson.M{
				"deleted":    true,
				"deleted_at": entry.Timestamp,
				"updated_at": entry.Timestamp,
			},
			"$push": bson.M{"history": entry},
			"$inc":  bson.M{"version": 1},
		}

		ok, err := r.swap(ctx, id, current.Version, update)
		if err != nil {
			return nil, fmt.Errorf("delete dossier: %w", err)
		}
		if ok {
			last := current.Dossier.Clone()
			last.Deleted = true
			last.DeletedAt = &entry.Timestamp
			last.UpdatedAt = entry.Timestamp
			last.History = append(last.History, entry)
			return last, nil
		}
	}
	return nil, domain.ErrConcurrentModification
}

func (r *DossierRepository) load(ctx context.Context, id string) (*dossierDoc, error) {
	var doc dossierDoc
	if err := r.col.FindOne(ctx, activeFilter(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDossierNotFound
		}
		return nil, fmt.Errorf("find dossier: %w", err)
	}
	return &doc, nil
}

// swap applies update only if the stored version still equals version.
func (r *DossierRepository) swap(ctx context.Context, id string, version int64, update bson.M) (bool, error) {
	filter := activeFilter(id)
	filter["version"] = version
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// FindByID retrieves a live dossier.
func (r *DossierRepository) FindByID(ctx context.Context, id string) (*domain.Dossier, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &doc.Dossier, nil
}

var sortFields = map[string]string{
	ports.SortByDate:      "date",
	ports.SortByNumber:    "number",
	ports.SortByStatus:    "status",
	ports.SortByCreatedAt: "created_at",
}

// List returns a page of live dossiers matching f and the total count.
func (r *DossierRepository) List(ctx context.Context, f ports.DossierFilter) ([]*domain.Dossier, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count dossiers: %w", err)
	}

	field, ok := sortFields[f.SortBy]
	if !ok {
		field = "created_at"
	}
	dir := -1
	if f.Order == ports.OrderAsc {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}})
	if f.Limit > 0 {
		skip, ok := pageSkip(f.Page, f.Limit, total)
		if !ok {
			return []*domain.Dossier{}, total, nil
		}
		opts.SetSkip(skip).SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find dossiers: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.Dossier, 0)
	for cur.Next(ctx) {
		var doc dossierDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode dossier: %w", err)
		}
		d := doc.Dossier
		items = append(items, &d)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate dossiers: %w", err)
	}
	return items, total, nil
}

// pageSkip returns the number of documents to skip for page, or false when
// page lies past the last page of total matches.
func pageSkip(page, limit int, total int64) (int64, bool) {
	if page < 1 {
		page = 1
	}
	pages := (total + int64(limit) - 1) / int64(limit)
	if int64(page-1) >= pages {
		return 0, false
	}
	return int64(page-1) * int64(limit), true
}

func listFilter(f ports.DossierFilter) bson.M {
	filter := bson.M{"deleted": bson.M{"$ne": true}}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Service != "" {
		filter["services"] = f.Service
	}
	if f.Search != "" {
		re := caseInsensitive(f.Search)
		filter["$or"] = bson.A{
			bson.M{"number": re},
			bson.M{"subject": re},
			bson.M{"sender": re},
		}
	}
	return filter
}

func caseInsensitive(search string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
}

// CountByStatus aggregates live dossiers per status.
func (r *DossierRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"deleted": bson.M{"$ne": true}}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer cur.Close(ctx)

	counts := make(map[domain.Status]int64, len(domain.Statuses))
	for _, st := range domain.Statuses {
		counts[st] = 0
	}
	for cur.Next(ctx) {
		var row struct {
			Status domain.Status `bson:"_id"`
			Count  int64         `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode status count: %w", err)
		}
		counts[row.Status] = row.Count
	}
	return counts, cur.Err()
}

// EnsureIndexes creates necessary indexes on the dossiers collection.
func (r *DossierRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "deleted", Value: 1}}},
		{Keys: bson.D{{Key: "services", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
