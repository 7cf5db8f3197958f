package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"xelaConnect/internal/errs"
	"xelaConnect/internal/interfaces"
	"xelaConnect/internal/models"
	"xelaConnect/internal/validators"
)

const (
	conversationPath = "/api/messaging/conversations/{partnerId}"
	messagesPath     = "/api/messaging/conversations/{partnerId}/messages"
	loginPath        = "/api/auth/login"
)

// MessagingClient implements interfaces.MessagingAPI over the messaging REST API.
// The credential is looked up before every request.
type MessagingClient struct {
	httpClient  *resty.Client
	credentials interfaces.CredentialProvider
}

func NewMessagingClient(baseURL string, timeout time.Duration, credentials interfaces.CredentialProvider) *MessagingClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &MessagingClient{
		httpClient:  client,
		credentials: credentials,
	}
}

// FetchConversation reads the conversation with partnerID, messages oldest first.
func (mc *MessagingClient) FetchConversation(ctx context.Context, partnerID string) (*models.Conversation, error) {
	if err := validators.ValidatePartnerID(partnerID); err != nil {
		return nil, err
	}
	req, err := mc.request(ctx)
	if err != nil {
		return nil, err
	}

	var body models.ConversationResponse
	resp, err := req.
		SetPathParam("partnerId", partnerID).
		SetResult(&body).
		ForceContentType("application/json").
		Get(conversationPath)
	if err != nil {
		return nil, fmt.Errorf("fetch conversation: %w", err)
	}
	if resp.IsError() {
		return nil, statusError(resp)
	}
	if body.Conversation == nil {
		return nil, errs.ErrEmptyResponse
	}
	if body.Conversation.Messages == nil {
		body.Conversation.Messages = []models.Message{}
	}
	return body.Conversation, nil
}

// SendMessage posts text to the conversation with partnerID. The response body
// is not used; callers re-fetch to observe the stored message.
func (mc *MessagingClient) SendMessage(ctx context.Context, partnerID, text string) error {
	if err := validators.ValidatePartnerID(partnerID); err != nil {
		return err
	}
	req, err := mc.request(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetPathParam("partnerId", partnerID).
		SetBody(models.SendMessageRequest{Message: text}).
		Post(messagesPath)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	if resp.IsError() {
		return statusError(resp)
	}
	return nil
}

// Login exchanges credentials for a bearer token.
func (mc *MessagingClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var envelope struct {
		Success bool                 `json:"success"`
		Message string               `json:"message"`
		Data    models.LoginResponse `json:"data"`
	}
	resp, err := mc.httpClient.R().
		SetContext(ctx).
		SetBody(models.LoginRequestBody{Email: email, Password: password}).
		SetResult(&envelope).
		ForceContentType("application/json").
		Post(loginPath)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.IsError() {
		return nil, statusError(resp)
	}
	if envelope.Data.Token == "" {
		return nil, errs.ErrInvalidToken
	}
	return &envelope.Data, nil
}

func (mc *MessagingClient) request(ctx context.Context) (*resty.Request, error) {
	req := mc.httpClient.R().SetContext(ctx)
	if mc.credentials == nil {
		return req, nil
	}
	token, err := mc.credentials.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read credential: %w", err)
	}
	// A missing token is left for the server to reject
	if token != "" {
		req.SetAuthToken(token)
	}
	return req, nil
}

func statusError(resp *resty.Response) error {
	method := http.MethodGet
	path := ""
	if resp.Request != nil {
		method = resp.Request.Method
		if resp.Request.RawRequest != nil {
			path = resp.Request.RawRequest.URL.Path
		}
	}
	return &errs.StatusError{
		Method: method,
		Path:   path,
		Code:   resp.StatusCode(),
		Body:   resp.String(),
	}
}
