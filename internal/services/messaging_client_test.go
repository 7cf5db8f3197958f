package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xelaConnect/internal/errs"
	"xelaConnect/internal/models"
)

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          string
}

func newRecordingServer(t *testing.T, status int, body string) (*httptest.Server, chan recordedRequest) {
	t.Helper()
	requests := make(chan recordedRequest, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		requests <- recordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Body:          string(raw),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, requests
}

type failingCredentials struct{}

func (failingCredentials) Token(ctx context.Context) (string, error) {
	return "", errors.New("storage unreadable")
}

func TestMessagingClient_FetchConversation(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK, `{
		"conversation": {
			"conversation_id": "u1:u42",
			"user_id": "u1",
			"other_user": {"id": "u42", "name": "Jordan Lee", "picture": "https://example.com/j.png"},
			"messages": [
				{"message_id": "m1", "sender_id": "u42", "content": "hi", "timestamp": "2024-05-01T10:00:00Z", "read": true},
				{"message_id": "m2", "sender_id": "u1", "content": "hey", "timestamp": "2024-05-01T10:01:00Z", "read": false}
			]
		}
	}`)
	client := NewMessagingClient(server.URL, time.Second, NewStaticCredentialProvider("t1"))

	conversation, err := client.FetchConversation(context.Background(), "u42")

	require.NoError(t, err)
	request := <-requests
	assert.Equal(t, http.MethodGet, request.Method)
	assert.Equal(t, "/api/messaging/conversations/u42", request.Path)
	assert.Equal(t, "Bearer t1", request.Authorization)

	assert.Equal(t, "Jordan Lee", conversation.OtherUser.Name)
	require.Len(t, conversation.Messages, 2)
	assert.Equal(t, "m1", conversation.Messages[0].MessageID)
	assert.Equal(t, "u1", conversation.Messages[1].SenderID)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 1, 0, 0, time.UTC), conversation.Messages[1].Timestamp.UTC())
}

func TestMessagingClient_FetchEmptyMessages(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusOK, `{"conversation": {"other_user": {"id": "u42"}, "messages": null}}`)
	client := NewMessagingClient(server.URL, time.Second, nil)

	conversation, err := client.FetchConversation(context.Background(), "u42")

	require.NoError(t, err)
	assert.NotNil(t, conversation.Messages)
	assert.Empty(t, conversation.Messages)
}

func TestMessagingClient_FetchMissingConversation(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusOK, `{}`)
	client := NewMessagingClient(server.URL, time.Second, nil)

	_, err := client.FetchConversation(context.Background(), "u42")

	assert.ErrorIs(t, err, errs.ErrEmptyResponse)
}

func TestMessagingClient_FetchStatusError(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusInternalServerError, `{"success": false}`)
	client := NewMessagingClient(server.URL, time.Second, NewStaticCredentialProvider("t1"))

	_, err := client.FetchConversation(context.Background(), "u42")

	var statusErr *errs.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, http.MethodGet, statusErr.Method)
}

func TestMessagingClient_NoTokenNoHeader(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusUnauthorized, `{"success": false}`)
	client := NewMessagingClient(server.URL, time.Second, NewStaticCredentialProvider(""))

	_, err := client.FetchConversation(context.Background(), "u42")

	var statusErr *errs.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
	assert.Empty(t, (<-requests).Authorization)
}

func TestMessagingClient_CredentialErrorStopsRequest(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK, `{}`)
	client := NewMessagingClient(server.URL, time.Second, failingCredentials{})

	_, err := client.FetchConversation(context.Background(), "u42")

	require.Error(t, err)
	assert.Empty(t, requests)
}

func TestMessagingClient_RejectsEmptyPartner(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK, `{}`)
	client := NewMessagingClient(server.URL, time.Second, nil)

	_, err := client.FetchConversation(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrEmptyPartnerID)
	assert.ErrorIs(t, client.SendMessage(context.Background(), "", "hi"), errs.ErrEmptyPartnerID)
	assert.Empty(t, requests)
}

func TestMessagingClient_SendMessage(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusCreated, `{"success": true}`)
	client := NewMessagingClient(server.URL, time.Second, NewStaticCredentialProvider("t1"))

	err := client.SendMessage(context.Background(), "u42", "hello")

	require.NoError(t, err)
	request := <-requests
	assert.Equal(t, http.MethodPost, request.Method)
	assert.Equal(t, "/api/messaging/conversations/u42/messages", request.Path)
	assert.Equal(t, "Bearer t1", request.Authorization)
	assert.JSONEq(t, `{"message":"hello"}`, request.Body)
}

func TestMessagingClient_SendMessageFailure(t *testing.T) {
	server, _ := newRecordingServer(t, http.StatusBadRequest, `{"success": false}`)
	client := NewMessagingClient(server.URL, time.Second, NewStaticCredentialProvider("t1"))

	err := client.SendMessage(context.Background(), "u42", "hello")

	var statusErr *errs.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.MethodPost, statusErr.Method)
	assert.Equal(t, "/api/messaging/conversations/u42/messages", statusErr.Path)
}

func TestMessagingClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })
	client := NewMessagingClient(server.URL, 50*time.Millisecond, nil)

	start := time.Now()
	_, err := client.FetchConversation(context.Background(), "u42")

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestMessagingClient_Login(t *testing.T) {
	response := models.Response{
		Success: true,
		Data: models.LoginResponse{
			User:  models.OtherUser{ID: "u1", Name: "Alex Rivera"},
			Token: "jwt-token",
		},
	}
	raw, err := json.Marshal(response)
	require.NoError(t, err)
	server, requests := newRecordingServer(t, http.StatusOK, string(raw))
	client := NewMessagingClient(server.URL, time.Second, nil)

	login, err := client.Login(context.Background(), "alex@xela.dev", "secret")

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", login.Token)
	assert.Equal(t, "u1", login.User.ID)
	request := <-requests
	assert.Equal(t, "/api/auth/login", request.Path)
	assert.JSONEq(t, `{"email":"alex@xela.dev","password":"secret"}`, request.Body)
}
