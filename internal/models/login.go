package models

type LoginRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  OtherUser `json:"user"`
	Token string    `json:"token"`
}
