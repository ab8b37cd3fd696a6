// Package flash carries one-shot user messages across a redirect in a cookie.
package flash // import "github.com/Xunop/book-manager/internal/http/flash"

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Xunop/book-manager/internal/log"
)

const (
	cookieName = "flash"
	cookieAge  = 60
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Set replaces the pending messages of the client.
func Set(w http.ResponseWriter, messages ...Message) {
	data, err := json.Marshal(messages)
	if err != nil {
		log.Error("Unable to encode flash messages", zap.Error(err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   cookieAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func Success(w http.ResponseWriter, text string) {
	Set(w, Message{Level: LevelSuccess, Text: text})
}

func Error(w http.ResponseWriter, text string) {
	Set(w, Message{Level: LevelError, Text: text})
}

// Pop returns the pending messages and clears them.
func Pop(w http.ResponseWriter, r *http.Request) []Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		log.Debug("Invalid flash cookie", zap.Error(err))
		return nil
	}
	var messages []Message
	if err := json.Unmarshal(data, &messages); err != nil {
		log.Debug("Invalid flash cookie", zap.Error(err))
		return nil
	}
	return messages
}
