package models

// OtherUser is the denormalized summary of the conversation partner.
type OtherUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
