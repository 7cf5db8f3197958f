package models

type SendMessageRequest struct {
	Message string `json:"message"`
}

type SendMessageResponse struct {
	Success bool    `json:"success"`
	Message Message `json:"message"`
}
