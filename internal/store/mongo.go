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
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/information-sharing-networks/blog-api/internal/blog"
)

const mongoCollection = "blogposts"

// mongoAuthor and mongoPost are the stored document shapes
type mongoAuthor struct {
	FirstName string `bson:"firstName"`
	LastName  string `bson:"lastName"`
}

type mongoPost struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Author  mongoAuthor        `bson:"author"`
	Title   string             `bson:"title"`
	Content string             `bson:"content"`
	Created time.Time          `bson:"created"`
}

func (d mongoPost) toPost() blog.BlogPost {
	return blog.BlogPost{
		ID:      d.ID.Hex(),
		Author:  blog.Author{FirstName: d.Author.FirstName, LastName: d.Author.LastName},
		Title:   d.Title,
		Content: d.Content,
		Created: d.Created.UTC(),
	}
}

// MongoStore stores posts as documents in a MongoDB collection
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB. The database named in the uri path is used,
// otherwise opts.DatabaseName.
func NewMongoStore(ctx context.Context, uri string, opts Options) (*MongoStore, error) {
	opts = opts.withDefaults()

	dbName, err := databaseFromURI(uri)
	if err != nil {
		return nil, err
	}
	if dbName == "" {
		dbName = opts.DatabaseName
	}

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(uint64(opts.MaxConnections)).
		SetMinPoolSize(uint64(opts.MinConnections)).
		SetMaxConnIdleTime(opts.MaxConnIdleTime).
		SetConnectTimeout(opts.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(dbName).Collection(mongoCollection),
	}, nil
}

// databaseFromURI returns the (unescaped) database in the path of a mongodb connection string,
// or "" when the uri does not name one.
func databaseFromURI(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", fmt.Errorf("invalid mongodb connection string: %w", err)
	}
	return cs.Database, nil
}

var createdOrder = bson.D{{Key: "created", Value: 1}, {Key: "_id", Value: 1}}

func (m *MongoStore) Insert(ctx context.Context, draft blog.Draft) (blog.BlogPost, error) {
	posts, err := m.InsertMany(ctx, []blog.Draft{draft})
	if err != nil {
		return blog.BlogPost{}, err
	}
	return posts[0], nil
}

func (m *MongoStore) InsertMany(ctx context.Context, drafts []blog.Draft) ([]blog.BlogPost, error) {
	if len(drafts) == 0 {
		return []blog.BlogPost{}, nil
	}

	// mongodb stores dates with millisecond precision
	created := time.Now().UTC().Truncate(time.Millisecond)

	docs := make([]any, 0, len(drafts))
	posts := make([]blog.BlogPost, 0, len(drafts))
	for _, d := range drafts {
		doc := mongoPost{
			ID:      primitive.NewObjectID(),
			Author:  mongoAuthor{FirstName: d.Author.FirstName, LastName: d.Author.LastName},
			Title:   d.Title,
			Content: d.Content,
			Created: created,
		}
		docs = append(docs, doc)
		posts = append(posts, doc.toPost())
	}

	if _, err := m.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("failed to insert blog posts: %w", err)
	}
	return posts, nil
}

func (m *MongoStore) FindAll(ctx context.Context) ([]blog.BlogPost, error) {
	cursor, err := m.collection.Find(ctx, bson.D{}, options.Find().SetSort(createdOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to find blog posts: %w", err)
	}

	var docs []mongoPost
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode blog posts: %w", err)
	}

	posts := make([]blog.BlogPost, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toPost())
	}
	return posts, nil
}

func (m *MongoStore) FindByID(ctx context.Context, id string) (blog.BlogPost, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// an id that is not an ObjectID cannot match any document
		return blog.BlogPost{}, ErrNotFound
	}
	return m.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, options.FindOne())
}

func (m *MongoStore) FindOne(ctx context.Context) (blog.BlogPost, error) {
	return m.findOne(ctx, bson.D{}, options.FindOne().SetSort(createdOrder))
}

func (m *MongoStore) findOne(ctx context.Context, filter bson.D, opts *options.FindOneOptions) (blog.BlogPost, error) {
	var doc mongoPost
	err := m.collection.FindOne(ctx, filter, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return blog.BlogPost{}, ErrNotFound
		}
		return blog.BlogPost{}, fmt.Errorf("failed to find blog post: %w", err)
	}
	return doc.toPost(), nil
}

func (m *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := m.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count blog posts: %w", err)
	}
	return n, nil
}

func (m *MongoStore) UpdateByID(ctx context.Context, id string, update blog.PostUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	filter := bson.D{{Key: "_id", Value: oid}}

	set := bson.D{}
	if update.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *update.Title})
	}
	if update.Content != nil {
		set = append(set, bson.E{Key: "content", Value: *update.Content})
	}

	// $set with no fields is rejected by the server, so only check the post exists
	if len(set) == 0 {
		n, err := m.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("failed to find blog post: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}

	res, err := m.collection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("failed to update blog post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := m.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}}); err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	return nil
}

func (m *MongoStore) DropAll(ctx context.Context) error {
	if err := m.collection.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop %s collection: %w", mongoCollection, err)
	}
	return nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
