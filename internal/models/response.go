package models

import "encoding/json"

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []error     `json:"errors"`
	Data    interface{} `json:"data"`
}

// MarshalJSON renders errors as their messages; error values have no exported fields.
func (r Response) MarshalJSON() ([]byte, error) {
	messages := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		messages = append(messages, err.Error())
	}
	return json.Marshal(struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Errors  []string    `json:"errors"`
		Data    interface{} `json:"data"`
	}{r.Success, r.Message, messages, r.Data})
}
