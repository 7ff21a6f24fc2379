package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Journal limits and defaults
const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
	MaxTagLength     = 50
	MaxCommentLength = 500

	// ReadingWordsPerMinute is the speed used to derive read time from word count.
	ReadingWordsPerMinute = 200
)

// Privacy tiers
const (
	PrivacyPrivate = "private"
	PrivacyFriends = "friends"
	PrivacyPublic  = "public"
)

var validPrivacies = map[string]bool{
	PrivacyPrivate: true,
	PrivacyFriends: true,
	PrivacyPublic:  true,
}

var validMoods = map[string]bool{
	"happy":         true,
	"calm":          true,
	"energetic":     true,
	"contemplative": true,
	"peaceful":      true,
	"neutral":       true,
}

// ValidPrivacy reports whether p is a known privacy tier.
func ValidPrivacy(p string) bool { return validPrivacies[p] }

// ValidMood reports whether m is a known mood.
func ValidMood(m string) bool { return validMoods[m] }

// Like is one entry in a journal's embedded like list. At most one per user.
type Like struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Comment is one entry in a journal's embedded comment list.
// UserName is denormalized at write time; renamed users keep the old name here.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	UserName  string             `bson:"user_name" json:"user_name"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// FontSettings holds per-journal rendering preferences.
type FontSettings struct {
	Family string `bson:"family,omitempty" json:"family,omitempty"`
	Size   string `bson:"size,omitempty" json:"size,omitempty"`
	Color  string `bson:"color,omitempty" json:"color,omitempty"`
}

// AuthorInfo is populated from the users table on community listings.
type AuthorInfo struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Journal is a user-authored entry with privacy, mood, and social metadata.
// UserID is the author's PostgreSQL UUID; AuthorName is denormalized.
type Journal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
	LastModified time.Time          `bson:"last_modified" json:"last_modified"`

	UserID     string `bson:"user_id" json:"user_id"`
	AuthorName string `bson:"author_name" json:"author_name"`

	Title   string   `bson:"title" json:"title"`
	Content string   `bson:"content" json:"content"`
	Tags    []string `bson:"tags" json:"tags"`
	Privacy string   `bson:"privacy" json:"privacy"`
	Mood    string   `bson:"mood" json:"mood"`
	IsDraft bool     `bson:"is_draft" json:"is_draft"`

	WordCount int   `bson:"word_count" json:"word_count"`
	ReadTime  int   `bson:"read_time" json:"read_time"`
	ViewCount int64 `bson:"view_count" json:"view_count"`

	CoverImage   string       `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	FontSettings FontSettings `bson:"font_settings,omitempty" json:"font_settings,omitempty"`

	Likes    []Like    `bson:"likes" json:"likes"`
	Comments []Comment `bson:"comments" json:"comments"`

	// Populated on community listings only, never stored.
	Author *AuthorInfo `bson:"-" json:"author,omitempty"`
}

// CountWords counts whitespace-delimited tokens in content.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// ReadTimeFor derives minutes-to-read from a word count, rounded up.
// Empty content reads in zero minutes.
func ReadTimeFor(wordCount int) int {
	if wordCount == 0 {
		return 0
	}
	return (wordCount + ReadingWordsPerMinute - 1) / ReadingWordsPerMinute
}

// SetContent updates content and recomputes the derived fields.
func (j *Journal) SetContent(content string, now time.Time) {
	j.Content = content
	j.WordCount = CountWords(content)
	j.ReadTime = ReadTimeFor(j.WordCount)
	j.LastModified = now
}

// CanView reports whether viewerID may read this journal. friends is the
// author's friends list, injected by the caller (there is no friend system
// producing it yet, so handlers pass nil).
func (j *Journal) CanView(viewerID string, friends []string) bool {
	if j.Privacy == PrivacyPublic {
		return true
	}
	if viewerID != "" && viewerID == j.UserID {
		return true
	}
	if j.Privacy == PrivacyFriends {
		for _, f := range friends {
			if f == viewerID {
				return true
			}
		}
	}
	return false
}

// LikedBy reports whether userID already has a like entry.
func (j *Journal) LikedBy(userID string) bool {
	for _, l := range j.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// FindComment returns the comment with the given id, or nil.
func (j *Journal) FindComment(id primitive.ObjectID) *Comment {
	for i := range j.Comments {
		if j.Comments[i].ID == id {
			return &j.Comments[i]
		}
	}
	return nil
}

// JournalStats is the aggregate returned by the stats endpoint.
type JournalStats struct {
	TotalEntries  int64 `bson:"total_entries" json:"total_entries"`
	TotalWords    int64 `bson:"total_words" json:"total_words"`
	TotalLikes    int64 `bson:"total_likes" json:"total_likes"`
	TotalComments int64 `bson:"total_comments" json:"total_comments"`
	Drafts        int64 `bson:"drafts" json:"drafts"`
	Published     int64 `bson:"published" json:"published"`
	PublicCount   int64 `bson:"public_count" json:"public_count"`
	PrivateCount  int64 `bson:"private_count" json:"private_count"`
}
