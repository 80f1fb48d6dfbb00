package store

import (
	"context"
	"fmt"
	"time"

	"github.com/medilearn/apiserver/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	quizAttemptsCollection      = "quiz_attempts"
	flashcardSessionsCollection = "flashcard_sessions"
	articleReadsCollection      = "article_reads"
)

type quizAttemptDoc struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	UserID         bson.ObjectID `bson:"userId"`
	QuizID         string        `bson:"quizId"`
	Score          int           `bson:"score"`
	TotalQuestions int           `bson:"totalQuestions"`
	CompletedAt    time.Time     `bson:"completedAt"`
}

type flashcardSessionDoc struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	UserID        bson.ObjectID `bson:"userId"`
	Category      string        `bson:"category"`
	CardsReviewed int           `bson:"cardsReviewed"`
	Understood    int           `bson:"understood"`
	NeedReview    int           `bson:"needReview"`
	CompletedAt   time.Time     `bson:"completedAt"`
}

type articleReadDoc struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	UserID    bson.ObjectID `bson:"userId"`
	ArticleID string        `bson:"articleId"`
	Title     string        `bson:"title"`
	ReadDate  time.Time     `bson:"readDate"`
}

// articleReadRow tolerates documents written by older clients, where articleId
// may be numeric and readDate may be a plain string.
type articleReadRow struct {
	ArticleID bson.RawValue `bson:"articleId"`
	Title     string        `bson:"title"`
	ReadDate  bson.RawValue `bson:"readDate"`
}

// MongoActivityRepository handles the activity collections in MongoDB.
type MongoActivityRepository struct {
	quizzes    *mongo.Collection
	flashcards *mongo.Collection
	articles   *mongo.Collection
}

func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{
		quizzes:    db.Collection(quizAttemptsCollection),
		flashcards: db.Collection(flashcardSessionsCollection),
		articles:   db.Collection(articleReadsCollection),
	}
}

func (r *MongoActivityRepository) InsertQuizAttempt(ctx context.Context, a types.QuizAttempt) (types.QuizAttempt, error) {
	uid, err := bson.ObjectIDFromHex(a.UserID)
	if err != nil {
		return types.QuizAttempt{}, ErrNotFound
	}
	res, err := r.quizzes.InsertOne(ctx, quizAttemptDoc{
		UserID:         uid,
		QuizID:         a.QuizID,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		CompletedAt:    a.CompletedAt,
	})
	if err != nil {
		return types.QuizAttempt{}, err
	}
	a.ID = insertedHex(res)
	return a, nil
}

func (r *MongoActivityRepository) InsertFlashcardSession(ctx context.Context, s types.FlashcardSession) (types.FlashcardSession, error) {
	uid, err := bson.ObjectIDFromHex(s.UserID)
	if err != nil {
		return types.FlashcardSession{}, ErrNotFound
	}
	res, err := r.flashcards.InsertOne(ctx, flashcardSessionDoc{
		UserID:        uid,
		Category:      s.Category,
		CardsReviewed: s.CardsReviewed,
		Understood:    s.Understood,
		NeedReview:    s.NeedReview,
		CompletedAt:   s.CompletedAt,
	})
	if err != nil {
		return types.FlashcardSession{}, err
	}
	s.ID = insertedHex(res)
	return s, nil
}

func (r *MongoActivityRepository) InsertArticleRead(ctx context.Context, a types.ArticleRead) (types.ArticleRead, error) {
	uid, err := bson.ObjectIDFromHex(a.UserID)
	if err != nil {
		return types.ArticleRead{}, ErrNotFound
	}
	res, err := r.articles.InsertOne(ctx, articleReadDoc{
		UserID:    uid,
		ArticleID: a.ArticleID,
		Title:     a.Title,
		ReadDate:  a.ReadDate,
	})
	if err != nil {
		return types.ArticleRead{}, err
	}
	a.ID = insertedHex(res)
	return a, nil
}

func (r *MongoActivityRepository) CountQuizAttempts(ctx context.Context, userID string) (int, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return 0, ErrNotFound
	}
	n, err := r.quizzes.CountDocuments(ctx, bson.D{{Key: "userId", Value: uid}})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *MongoActivityRepository) SumFlashcardsReviewed(ctx context.Context, userID string) (int, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return 0, ErrNotFound
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "userId", Value: uid}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$cardsReviewed"}}},
		}}},
	}
	cursor, err := r.flashcards.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return int(rows[0].Total), nil
}

func (r *MongoActivityRepository) RecentArticleReads(ctx context.Context, userID string, limit int) ([]types.ArticleSummary, error) {
	uid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "readDate", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.articles.Find(ctx, bson.D{{Key: "userId", Value: uid}}, opts)
	if err != nil {
		return nil, err
	}
	var rows []articleReadRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]types.ArticleSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.ArticleSummary{
			ID:    rawString(row.ArticleID),
			Title: row.Title,
			Date:  rawDate(row.ReadDate),
		})
	}
	return out, nil
}

func insertedHex(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(res.InsertedID)
}

func rawString(v bson.RawValue) string {
	switch v.Type {
	case bson.TypeString:
		return v.StringValue()
	case bson.TypeInt32:
		return fmt.Sprint(v.Int32())
	case bson.TypeInt64:
		return fmt.Sprint(v.Int64())
	case bson.TypeDouble:
		return fmt.Sprint(v.Double())
	case bson.TypeObjectID:
		return v.ObjectID().Hex()
	default:
		return ""
	}
}

func rawDate(v bson.RawValue) string {
	switch v.Type {
	case bson.TypeDateTime:
		return time.UnixMilli(v.DateTime()).UTC().Format(time.RFC3339)
	case bson.TypeString:
		return v.StringValue()
	default:
		return ""
	}
}
