package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   \n\t  "))
	assert.Equal(t, 3, CountWords("one two three"))
	assert.Equal(t, 3, CountWords("  one\ntwo\t three  "))
}

func TestReadTimeFor(t *testing.T) {
	assert.Equal(t, 0, ReadTimeFor(0))
	assert.Equal(t, 1, ReadTimeFor(1))
	assert.Equal(t, 1, ReadTimeFor(200))
	assert.Equal(t, 2, ReadTimeFor(201))
	assert.Equal(t, 5, ReadTimeFor(1000))
}

func TestSetContentRecomputesDerivedFields(t *testing.T) {
	j := &Journal{}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	j.SetContent("one two three", now)
	assert.Equal(t, 3, j.WordCount)
	assert.Equal(t, 1, j.ReadTime)
	assert.Equal(t, now, j.LastModified)

	later := now.Add(time.Hour)
	j.SetContent("", later)
	assert.Equal(t, 0, j.WordCount)
	assert.Equal(t, 0, j.ReadTime)
	assert.Equal(t, later, j.LastModified)
}

func TestCanView(t *testing.T) {
	tests := []struct {
		name    string
		privacy string
		viewer  string
		friends []string
		want    bool
	}{
		{"public visible to anyone", PrivacyPublic, "someone-else", nil, true},
		{"public visible anonymously", PrivacyPublic, "", nil, true},
		{"private visible to author", PrivacyPrivate, "author", nil, true},
		{"private hidden from others", PrivacyPrivate, "someone-else", nil, false},
		{"private hidden anonymously", PrivacyPrivate, "", nil, false},
		{"friends visible to author", PrivacyFriends, "author", nil, true},
		{"friends visible to listed friend", PrivacyFriends, "friend-1", []string{"friend-1", "friend-2"}, true},
		{"friends hidden from non-friend", PrivacyFriends, "stranger", []string{"friend-1"}, false},
		{"friends hidden with empty list", PrivacyFriends, "stranger", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &Journal{UserID: "author", Privacy: tt.privacy}
			assert.Equal(t, tt.want, j.CanView(tt.viewer, tt.friends))
		})
	}
}

func TestCanViewAnonymousNeverMatchesEmptyAuthor(t *testing.T) {
	// A journal with no author id must not treat anonymous viewers as the author
	j := &Journal{UserID: "", Privacy: PrivacyPrivate}
	assert.False(t, j.CanView("", nil))
}

func TestLikedBy(t *testing.T) {
	j := &Journal{
		Likes: []Like{
			{UserID: "u1", CreatedAt: time.Now()},
			{UserID: "u2", CreatedAt: time.Now()},
		},
	}
	assert.True(t, j.LikedBy("u1"))
	assert.True(t, j.LikedBy("u2"))
	assert.False(t, j.LikedBy("u3"))
	assert.False(t, (&Journal{}).LikedBy("u1"))
}

func TestFindComment(t *testing.T) {
	id1 := primitive.NewObjectID()
	id2 := primitive.NewObjectID()
	j := &Journal{
		Comments: []Comment{
			{ID: id1, UserID: "u1", Content: "first"},
			{ID: id2, UserID: "u2", Content: "second"},
		},
	}

	c := j.FindComment(id2)
	assert.NotNil(t, c)
	assert.Equal(t, "second", c.Content)

	assert.Nil(t, j.FindComment(primitive.NewObjectID()))
}

func TestValidPrivacyAndMood(t *testing.T) {
	assert.True(t, ValidPrivacy(PrivacyPrivate))
	assert.True(t, ValidPrivacy(PrivacyFriends))
	assert.True(t, ValidPrivacy(PrivacyPublic))
	assert.False(t, ValidPrivacy("everyone"))
	assert.False(t, ValidPrivacy(""))

	assert.True(t, ValidMood("calm"))
	assert.True(t, ValidMood("neutral"))
	assert.False(t, ValidMood("furious"))
}
