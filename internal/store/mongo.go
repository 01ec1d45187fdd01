package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studysection/notes-backend/internal/models"
)

// UserStore handles user CRUD in the users collection.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection("users")}
}

// EnsureIndexes creates the unique index on email. Uniqueness lives in
// the index rather than a find-then-insert check, so two concurrent
// signups with the same address cannot both succeed.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *UserStore) CreateUser(ctx context.Context, name, email, hashedPassword string) (*models.User, error) {
	now := time.Now().UTC()
	u := &models.User{
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// TouchUpdatedAt refreshes the user's updatedAt stamp and returns the
// new value. Called on every successful login.
func (s *UserStore) TouchUpdatedAt(ctx context.Context, id primitive.ObjectID) (time.Time, error) {
	now := time.Now().UTC()
	_, err := s.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{"updatedAt": now}})
	if err != nil {
		return time.Time{}, fmt.Errorf("touch user: %w", err)
	}
	return now, nil
}

// NoteStore handles note CRUD in the notes collection. Every operation
// includes the owner id in its filter, so a note owned by someone else
// surfaces as models.ErrNotFound, same as a note that does not exist.
type NoteStore struct {
	col *mongo.Collection
}

func NewNoteStore(db *mongo.Database) *NoteStore {
	return &NoteStore{col: db.Collection("notes")}
}

// ownerFilter builds the {_id, user} predicate shared by all
// single-note operations. An id that is not a valid ObjectID can never
// match anything, reported as ErrNotFound by the callers.
func ownerFilter(userID, noteID string) (bson.M, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	nid, err := primitive.ObjectIDFromHex(noteID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	return bson.M{"_id": nid, "user": uid}, nil
}

// ListByUser returns the user's notes, newest first.
func (s *NoteStore) ListByUser(ctx context.Context, userID string) ([]models.Note, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"user": uid}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *NoteStore) Create(ctx context.Context, userID string, req models.CreateNoteRequest) (*models.Note, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	note := &models.Note{
		UserID:      uid,
		Title:       req.Title,
		Content:     req.Content,
		Type:        req.Type,
		AudioLength: req.AudioLength,
		Date:        time.Now().UTC(),
		IsFavorite:  false,
	}
	res, err := s.col.InsertOne(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	note.ID = res.InsertedID.(primitive.ObjectID)
	return note, nil
}

func (s *NoteStore) Delete(ctx context.Context, userID, noteID string) (*models.Note, error) {
	filter, err := ownerFilter(userID, noteID)
	if err != nil {
		return nil, err
	}
	var n models.Note
	err = s.col.FindOneAndDelete(ctx, filter).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NoteStore) UpdateTitle(ctx context.Context, userID, noteID, title string) (*models.Note, error) {
	return s.findOneAndUpdate(ctx, userID, noteID, bson.M{"$set": bson.M{"title": title}})
}

func (s *NoteStore) UpdateContent(ctx context.Context, userID, noteID, content string) (*models.Note, error) {
	return s.findOneAndUpdate(ctx, userID, noteID, bson.M{"$set": bson.M{"content": content}})
}

// ToggleFavorite inverts the favorite flag server-side with a pipeline
// update, so concurrent toggles cannot lose each other's writes.
func (s *NoteStore) ToggleFavorite(ctx context.Context, userID, noteID string) (*models.Note, error) {
	update := bson.A{
		bson.M{"$set": bson.M{"isFavorite": bson.M{"$not": "$isFavorite"}}},
	}
	return s.findOneAndUpdate(ctx, userID, noteID, update)
}

// PushImage appends an image entry to the note's image array, creating
// the array when absent.
func (s *NoteStore) PushImage(ctx context.Context, userID, noteID string, img models.NoteImage) error {
	filter, err := ownerFilter(userID, noteID)
	if err != nil {
		return err
	}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"images": img}})
	if err != nil {
		return fmt.Errorf("push image: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// PullImage removes every image entry whose filename matches exactly.
// Removing a filename that is not present is not an error; only a
// missing note is.
func (s *NoteStore) PullImage(ctx context.Context, userID, noteID, filename string) error {
	filter, err := ownerFilter(userID, noteID)
	if err != nil {
		return err
	}
	res, err := s.col.UpdateOne(ctx, filter, bson.M{"$pull": bson.M{"images": bson.M{"filename": filename}}})
	if err != nil {
		return fmt.Errorf("pull image: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *NoteStore) findOneAndUpdate(ctx context.Context, userID, noteID string, update interface{}) (*models.Note, error) {
	filter, err := ownerFilter(userID, noteID)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var n models.Note
	err = s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}
