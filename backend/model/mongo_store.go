package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"file-vault/backend/library/objectid"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// fileDocument is the persisted layout of a file record: ObjectID keys and
// a parentId that is either the int 0 or the parent's ObjectID.
type fileDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"userId"`
	Name      string             `bson:"name"`
	Type      string             `bson:"type"`
	IsPublic  bool               `bson:"isPublic"`
	ParentID  interface{}        `bson:"parentId"`
	Data      *string            `bson:"data,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt,omitempty"`
}

func parentValue(p ParentID) (interface{}, error) {
	if p.IsRoot() {
		return int32(0), nil
	}
	oid, err := objectid.ParseObjectID(string(p))
	if err != nil {
		return nil, fmt.Errorf("parent %q: %w", p, err)
	}
	return oid, nil
}

func parentFromValue(v interface{}) ParentID {
	switch p := v.(type) {
	case primitive.ObjectID:
		return ParentID(p.Hex())
	case string:
		if p != "" {
			return ParentID(p)
		}
	}
	return RootParent
}

func newFileDocument(f *File) (*fileDocument, error) {
	id, err := objectid.ParseObjectID(f.ID)
	if err != nil {
		return nil, fmt.Errorf("file id %q: %w", f.ID, err)
	}
	userID, err := objectid.ParseObjectID(f.UserID)
	if err != nil {
		return nil, fmt.Errorf("user id %q: %w", f.UserID, err)
	}
	parent, err := parentValue(f.ParentID)
	if err != nil {
		return nil, err
	}
	return &fileDocument{
		ID:        id,
		UserID:    userID,
		Name:      f.Name,
		Type:      string(f.Type),
		IsPublic:  f.IsPublic,
		ParentID:  parent,
		Data:      f.Data,
		CreatedAt: f.CreatedAt,
	}, nil
}

func (d *fileDocument) toFile() *File {
	return &File{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		Name:      d.Name,
		Type:      FileType(d.Type),
		IsPublic:  d.IsPublic,
		ParentID:  parentFromValue(d.ParentID),
		Data:      d.Data,
		CreatedAt: d.CreatedAt,
	}
}

// MongoStore keeps users and files in the "users" and "files" collections.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	files  *mongo.Collection
}

func OpenMongoStore(ctx context.Context, uri string, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(database)
	s := &MongoStore{
		client: client,
		users:  db.Collection("users"),
		files:  db.Collection("files"),
	}
	_, err = s.files.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "parentId", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create files index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) InsertFile(ctx context.Context, f *File) (string, error) {
	f.ID = objectid.New()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	doc, err := newFileDocument(f)
	if err != nil {
		return "", err
	}
	if _, err := s.files.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert file: %w", err)
	}
	return f.ID, nil
}

func (s *MongoStore) GetFile(ctx context.Context, id string, ownerID string) (*File, error) {
	oid, err := objectid.ParseObjectID(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}
	filter := bson.M{"_id": oid}
	if ownerID != "" {
		owner, err := objectid.ParseObjectID(ownerID)
		if err != nil {
			return nil, ErrRecordNotFound
		}
		filter["userId"] = owner
	}
	var doc fileDocument
	if err := s.files.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get file %s: %w", id, err)
	}
	return doc.toFile(), nil
}

func (s *MongoStore) ListFilesByParent(ctx context.Context, ownerID string, parentID ParentID, page int, pageSize int) ([]*File, error) {
	offset, limit, ok := pageBounds(page, pageSize)
	files := make([]*File, 0, limit)
	if !ok {
		return files, nil
	}
	owner, err := objectid.ParseObjectID(ownerID)
	if err != nil {
		return files, nil
	}
	parent, err := parentValue(parentID)
	if err != nil {
		return files, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := s.files.Find(ctx, bson.M{"userId": owner, "parentId": parent}, opts)
	if err != nil {
		return nil, fmt.Errorf("list files of %s: %w", parentID, err)
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var doc fileDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode file: %w", err)
		}
		files = append(files, doc.toFile())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list files of %s: %w", parentID, err)
	}
	return files, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*User, error) {
	oid, err := objectid.ParseObjectID(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}
	var doc userDocument
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &User{ID: doc.ID.Hex(), Email: doc.Email, CreatedAt: doc.CreatedAt}, nil
}

func (s *MongoStore) InsertUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = objectid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	oid, err := objectid.ParseObjectID(u.ID)
	if err != nil {
		return fmt.Errorf("user id %q: %w", u.ID, err)
	}
	if _, err := s.users.InsertOne(ctx, userDocument{ID: oid, Email: u.Email, CreatedAt: u.CreatedAt}); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
