package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenreName(t *testing.T) {
	assert.Equal(t, "Фэнтези", GenreName("fantasy"))
	assert.Equal(t, "Другое", GenreName(DefaultGenre))
	assert.Equal(t, "poetry", GenreName("poetry"))
	assert.True(t, IsGenre("non_fiction"))
	assert.False(t, IsGenre("Фэнтези"))
	assert.Len(t, Genres, 9)
}

func TestParseSaveLocation(t *testing.T) {
	loc, err := ParseSaveLocation("")
	assert.NoError(t, err)
	assert.Equal(t, SaveToBoth, loc)

	for _, v := range []string{"db", "file", "both"} {
		loc, err := ParseSaveLocation(v)
		assert.NoError(t, err)
		assert.Equal(t, SaveLocation(v), loc)
	}

	_, err = ParseSaveLocation("cloud")
	assert.Error(t, err)

	assert.True(t, SaveToDB.ToDB())
	assert.True(t, SaveToBoth.ToDB())
	assert.False(t, SaveToFile.ToDB())
}

func TestParseOrigin(t *testing.T) {
	assert.Equal(t, OriginFile, ParseOrigin("file"))
	assert.Equal(t, OriginDB, ParseOrigin("db"))
	assert.Equal(t, OriginDB, ParseOrigin(""))
	assert.Equal(t, OriginDB, ParseOrigin("FILE"))
}

func TestBookString(t *testing.T) {
	b := &Book{Title: "Мастер и Маргарита", Author: "Булгаков", Genre: "fiction", Origin: OriginDB}
	assert.Equal(t, "Мастер и Маргарита - Булгаков", b.String())
	assert.Equal(t, "Художественная литература", b.GenreName())
	assert.True(t, b.FromDB())
}
