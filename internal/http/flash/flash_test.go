package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndPop(t *testing.T) {
	w := httptest.NewRecorder()
	Success(w, `Книга "Дюна" добавлена`)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	r := httptest.NewRequest(http.MethodGet, "/books/", nil)
	r.AddCookie(cookies[0])
	w = httptest.NewRecorder()

	messages := Pop(w, r)
	require.Len(t, messages, 1)
	assert.Equal(t, LevelSuccess, messages[0].Level)
	assert.Equal(t, `Книга "Дюна" добавлена`, messages[0].Text)

	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, cookieName, cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestPopWithoutCookie(t *testing.T) {
	w := httptest.NewRecorder()
	assert.Empty(t, Pop(w, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Empty(t, w.Result().Cookies())
}

func TestPopInvalidCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: cookieName, Value: "%%%"})
	assert.Empty(t, Pop(httptest.NewRecorder(), r))
}
