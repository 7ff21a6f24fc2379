package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-backend/internal/database"
	"github.com/mindhaven-app/mindhaven-backend/internal/middleware"
	"github.com/mindhaven-app/mindhaven-backend/internal/models"
	"github.com/mindhaven-app/mindhaven-backend/internal/services"
)

func journals() *mongo.Collection {
	return database.DB.Collection("journals")
}

type CreateJournalRequest struct {
	Title        string               `json:"title"`
	Content      string               `json:"content"`
	Tags         []string             `json:"tags"`
	Privacy      string               `json:"privacy"`
	Mood         string               `json:"mood"`
	IsDraft      bool                 `json:"is_draft"`
	CoverImage   string               `json:"cover_image"`
	FontSettings *models.FontSettings `json:"font_settings"`
}

// validateJournalFields checks title/content/tags limits shared by create and update.
func validateJournalFields(title, content string, tags []string) string {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return "Title and content are required"
	}
	if len(title) > models.MaxTitleLength {
		return "Title must be at most 200 characters"
	}
	if len(content) > models.MaxContentLength {
		return "Content must be at most 10000 characters"
	}
	for _, tag := range tags {
		if len(tag) > models.MaxTagLength {
			return "Tags must be at most 50 characters"
		}
	}
	return ""
}

// CreateJournal creates a new journal entry for the authenticated user.
func CreateJournal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	var req CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := validateJournalFields(req.Title, req.Content, req.Tags); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// Defaults
	if req.Tags == nil {
		req.Tags = []string{}
	}
	if req.Privacy == "" {
		req.Privacy = models.PrivacyPrivate
	}
	if req.Mood == "" {
		req.Mood = "neutral"
	}
	if !models.ValidPrivacy(req.Privacy) {
		writeError(w, http.StatusBadRequest, "Unknown privacy setting")
		return
	}
	if !models.ValidMood(req.Mood) {
		writeError(w, http.StatusBadRequest, "Unknown mood")
		return
	}

	authorName := ""
	if user, err := services.GetUserByID(userID); err == nil && user != nil {
		authorName = user.FullName
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	journal := models.Journal{
		ID:         primitive.NewObjectID(),
		CreatedAt:  now,
		UpdatedAt:  now,
		UserID:     userID,
		AuthorName: authorName,
		Title:      req.Title,
		Tags:       req.Tags,
		Privacy:    req.Privacy,
		Mood:       req.Mood,
		IsDraft:    req.IsDraft,
		CoverImage: req.CoverImage,
		Likes:      []models.Like{},
		Comments:   []models.Comment{},
	}
	if req.FontSettings != nil {
		journal.FontSettings = *req.FontSettings
	}
	journal.SetContent(req.Content, now)

	if _, err := journals().InsertOne(ctx, journal); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create journal entry")
		return
	}

	services.Cache.Delete(services.StatsCacheKey(userID))

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Journal created successfully",
		"journal": journal,
	})
}

// GetMyJournals returns the caller's journals, newest first, paginated.
// ?includeDrafts=false excludes drafts.
func GetMyJournals(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)
	page, limit := parsePageParams(r)

	filter := bson.M{"user_id": userID}
	if r.URL.Query().Get("includeDrafts") == "false" {
		filter["is_draft"] = false
	}

	listJournals(w, filter, page, limit, false)
}

// GetCommunityJournals returns public, non-draft journals, newest first,
// optionally filtered by tag. No authentication required.
func GetCommunityJournals(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePageParams(r)

	filter := bson.M{
		"privacy":  models.PrivacyPublic,
		"is_draft": false,
	}
	if tag := strings.TrimSpace(r.URL.Query().Get("tag")); tag != "" {
		filter["tags"] = tag
	}

	listJournals(w, filter, page, limit, true)
}

func listJournals(w http.ResponseWriter, filter bson.M, page, limit int, populateAuthors bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	total, err := journals().CountDocuments(ctx, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load journals")
		return
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"created_at": -1})
	findOptions.SetLimit(int64(limit))
	findOptions.SetSkip(int64(page-1) * int64(limit))

	cursor, err := journals().Find(ctx, filter, findOptions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load journals")
		return
	}
	defer cursor.Close(ctx)

	items := []models.Journal{}
	if err = cursor.All(ctx, &items); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load journals")
		return
	}

	if populateAuthors && len(items) > 0 {
		ids := make([]string, 0, len(items))
		seen := make(map[string]bool, len(items))
		for _, j := range items {
			if !seen[j.UserID] {
				seen[j.UserID] = true
				ids = append(ids, j.UserID)
			}
		}
		if authors, err := services.GetAuthorInfo(ids); err == nil {
			for i := range items {
				if info, ok := authors[items[i].UserID]; ok {
					items[i].Author = &info
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       items,
		"pagination": NewPagination(page, limit, total),
	})
}

// fetchJournal loads a journal by its hex id. A malformed id behaves like a
// missing document.
func fetchJournal(ctx context.Context, id string) (*models.Journal, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongo.ErrNoDocuments
	}
	var journal models.Journal
	if err := journals().FindOne(ctx, bson.M{"_id": objectID}).Decode(&journal); err != nil {
		return nil, err
	}
	return &journal, nil
}

// GetJournal returns one journal, enforcing the visibility rule. Views by
// anyone other than the author bump view_count; the increment is
// fire-and-forget and never fails the request.
func GetJournal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	journal, err := fetchJournal(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, "Journal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load journal")
		return
	}

	// No friend system produces a friends list yet, so the friends tier is
	// effectively author-only here.
	if !journal.CanView(userID, nil) {
		writeError(w, http.StatusForbidden, "You do not have access to this journal")
		return
	}

	if userID != journal.UserID {
		journals().UpdateOne(ctx, bson.M{"_id": journal.ID}, bson.M{"$inc": bson.M{"view_count": 1}})
		journal.ViewCount++
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"journal": journal,
	})
}

type UpdateJournalRequest struct {
	Title        *string              `json:"title"`
	Content      *string              `json:"content"`
	Tags         *[]string            `json:"tags"`
	Privacy      *string              `json:"privacy"`
	Mood         *string              `json:"mood"`
	IsDraft      *bool                `json:"is_draft"`
	CoverImage   *string              `json:"cover_image"`
	FontSettings *models.FontSettings `json:"font_settings"`
}

// UpdateJournal applies a partial update to the caller's own journal.
// font_settings merges field by field rather than replacing the whole block.
func UpdateJournal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	var req UpdateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	journal, err := fetchJournal(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, "Journal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load journal")
		return
	}
	if journal.UserID != userID {
		writeError(w, http.StatusForbidden, "Only the author can edit this journal")
		return
	}

	now := time.Now()
	set := bson.M{"updated_at": now}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" || len(*req.Title) > models.MaxTitleLength {
			writeError(w, http.StatusBadRequest, "Title must be 1-200 characters")
			return
		}
		journal.Title = *req.Title
		set["title"] = *req.Title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" || len(*req.Content) > models.MaxContentLength {
			writeError(w, http.StatusBadRequest, "Content must be 1-10000 characters")
			return
		}
		journal.SetContent(*req.Content, now)
		set["content"] = journal.Content
		set["word_count"] = journal.WordCount
		set["read_time"] = journal.ReadTime
		set["last_modified"] = journal.LastModified
	}
	if req.Tags != nil {
		for _, tag := range *req.Tags {
			if len(tag) > models.MaxTagLength {
				writeError(w, http.StatusBadRequest, "Tags must be at most 50 characters")
				return
			}
		}
		journal.Tags = *req.Tags
		set["tags"] = *req.Tags
	}
	if req.Privacy != nil {
		if !models.ValidPrivacy(*req.Privacy) {
			writeError(w, http.StatusBadRequest, "Unknown privacy setting")
			return
		}
		journal.Privacy = *req.Privacy
		set["privacy"] = *req.Privacy
	}
	if req.Mood != nil {
		if !models.ValidMood(*req.Mood) {
			writeError(w, http.StatusBadRequest, "Unknown mood")
			return
		}
		journal.Mood = *req.Mood
		set["mood"] = *req.Mood
	}
	if req.IsDraft != nil {
		journal.IsDraft = *req.IsDraft
		set["is_draft"] = *req.IsDraft
	}
	if req.CoverImage != nil {
		journal.CoverImage = *req.CoverImage
		set["cover_image"] = *req.CoverImage
	}
	if req.FontSettings != nil {
		// Merge: only the provided sub-fields change
		if req.FontSettings.Family != "" {
			journal.FontSettings.Family = req.FontSettings.Family
			set["font_settings.family"] = req.FontSettings.Family
		}
		if req.FontSettings.Size != "" {
			journal.FontSettings.Size = req.FontSettings.Size
			set["font_settings.size"] = req.FontSettings.Size
		}
		if req.FontSettings.Color != "" {
			journal.FontSettings.Color = req.FontSettings.Color
			set["font_settings.color"] = req.FontSettings.Color
		}
	}

	if _, err := journals().UpdateOne(ctx, bson.M{"_id": journal.ID}, bson.M{"$set": set}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update journal")
		return
	}
	journal.UpdatedAt = now

	services.Cache.Delete(services.StatsCacheKey(userID))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Journal updated successfully",
		"journal": journal,
	})
}

// DeleteJournal hard-deletes the caller's own journal.
func DeleteJournal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	journal, err := fetchJournal(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, "Journal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load journal")
		return
	}
	if journal.UserID != userID {
		writeError(w, http.StatusForbidden, "Only the author can delete this journal")
		return
	}

	if _, err := journals().DeleteOne(ctx, bson.M{"_id": journal.ID}); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete journal")
		return
	}

	services.Cache.Delete(services.StatsCacheKey(userID))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Journal deleted successfully",
	})
}

// ToggleLike likes or unlikes a journal for the caller. $pull/$push keep the
// embedded list consistent under concurrent toggles from different users.
func ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	journal, err := fetchJournal(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, "Journal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load journal")
		return
	}
	if !journal.CanView(userID, nil) {
		writeError(w, http.StatusForbidden, "You do not have access to this journal")
		return
	}

	liked := journal.LikedBy(userID)
	likeCount := int64(len(journal.Likes))

	var update bson.M
	if liked {
		update = bson.M{"$pull": bson.M{"likes": bson.M{"user_id": userID}}}
		likeCount--
	} else {
		update = bson.M{"$push": bson.M{"likes": models.Like{UserID: userID, CreatedAt: time.Now()}}}
		likeCount++
	}

	if _, err := journals().UpdateOne(ctx, bson.M{"_id": journal.ID}, update); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update like")
		return
	}

	services.Cache.Delete(services.StatsCacheKey(journal.UserID))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"liked":      !liked,
		"like_count": likeCount,
	})
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

// AddComment appends a comment to a journal the caller can view.
func AddComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "Comment content is required")
		return
	}
	if len(req.Content) > models.MaxCommentLength {
		writeError(w, http.StatusBadRequest, "Comment must be at most 500 characters")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	journal, err := fetchJournal(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, "Journal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load journal")
		return
	}
	if !journal.CanView(userID, nil) {
		writeError(w, http.StatusForbidden, "You do not have access to this journal")
		return
	}

	userName := ""
	if user, err := services.GetUserByID(userID); err == nil && user != nil {
		userName = user.FullName
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		UserName:  userName,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	update := bson.M{"$push": bson.M{"comments": comment}}
	if _, err := journals().UpdateOne(ctx, bson.M{"_id": journal.ID}, update); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add comment")
		return
	}

	services.Cache.Delete(services.StatsCacheKey(journal.UserID))

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"comment": comment,
	})
}

// DeleteComment removes a comment. Allowed for the comment's author or the
// journal's author, nobody else.
func DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	journal, err := fetchJournal(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			writeError(w, http.StatusNotFound, "Journal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load journal")
		return
	}

	commentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}

	comment := journal.FindComment(commentID)
	if comment == nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	if comment.UserID != userID && journal.UserID != userID {
		writeError(w, http.StatusForbidden, "You cannot delete this comment")
		return
	}

	update := bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}}
	if _, err := journals().UpdateOne(ctx, bson.M{"_id": journal.ID}, update); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete comment")
		return
	}

	services.Cache.Delete(services.StatsCacheKey(journal.UserID))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Comment deleted successfully",
	})
}

// GetJournalStats aggregates the caller's journal statistics. Results are
// cached briefly and invalidated on any mutation touching the author.
func GetJournalStats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.AuthUserID(r)

	var stats models.JournalStats
	if hit, _ := services.Cache.Get(services.StatsCacheKey(userID), &stats); hit {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"stats":   stats,
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"user_id": userID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total_entries":  bson.M{"$sum": 1},
			"total_words":    bson.M{"$sum": "$word_count"},
			"total_likes":    bson.M{"$sum": bson.M{"$size": "$likes"}},
			"total_comments": bson.M{"$sum": bson.M{"$size": "$comments"}},
			"drafts":         bson.M{"$sum": bson.M{"$cond": bson.A{"$is_draft", 1, 0}}},
			"public_count":   bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$privacy", models.PrivacyPublic}}, 1, 0}}},
			"private_count":  bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$privacy", models.PrivacyPrivate}}, 1, 0}}},
		}}},
	}

	cursor, err := journals().Aggregate(ctx, pipeline)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	defer cursor.Close(ctx)

	var results []models.JournalStats
	if err := cursor.All(ctx, &results); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute statistics")
		return
	}
	if len(results) > 0 {
		stats = results[0]
	}
	stats.Published = stats.TotalEntries - stats.Drafts

	services.Cache.Set(services.StatsCacheKey(userID), stats)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}
