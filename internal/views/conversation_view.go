package views

import (
	"fmt"
	"io"
	"strings"

	"xelaConnect/internal/models"
	"xelaConnect/internal/msgs"
	"xelaConnect/internal/utils"
)

type Alignment string

const (
	AlignLeft  Alignment = "left"
	AlignRight Alignment = "right"
)

type Bubble struct {
	MessageID string
	SenderID  string
	Content   string
	Time      string
	Read      bool
	Alignment Alignment
}

type ConversationViewModel struct {
	Title       string
	Picture     string
	Bubbles     []Bubble
	Placeholder string
	Input       string
	CanSend     bool
	Loading     bool
}

// RenderConversation maps the last fetched conversation onto bubbles, in server
// order. A message is the viewer's own when its sender is viewerID.
func RenderConversation(conversation *models.Conversation, viewerID string) ConversationViewModel {
	if conversation == nil {
		return ConversationViewModel{Loading: true}
	}

	vm := ConversationViewModel{
		Title:   conversation.OtherUser.Name,
		Picture: conversation.OtherUser.Picture,
		Bubbles: make([]Bubble, 0, len(conversation.Messages)),
	}
	for _, message := range conversation.Messages {
		alignment := AlignLeft
		if message.SenderID == viewerID {
			alignment = AlignRight
		}
		vm.Bubbles = append(vm.Bubbles, Bubble{
			MessageID: message.MessageID,
			SenderID:  message.SenderID,
			Content:   message.Content,
			Time:      utils.FormatMessageTime(message.Timestamp),
			Read:      message.Read,
			Alignment: alignment,
		})
	}
	if len(vm.Bubbles) == 0 {
		vm.Placeholder = msgs.MsgStartConversation
	}
	return vm
}

// WriteConversation prints vm for a terminal of the given width.
func WriteConversation(w io.Writer, vm ConversationViewModel, width int) error {
	if width < 20 {
		width = 20
	}
	var b strings.Builder

	switch {
	case vm.Loading:
		b.WriteString("Loading conversation...\n")
	default:
		title := vm.Title
		if title == "" {
			title = "Conversation"
		}
		b.WriteString(title + "\n")
		b.WriteString(strings.Repeat("-", width) + "\n")
		if vm.Placeholder != "" {
			b.WriteString(vm.Placeholder + "\n")
		}
		for _, bubble := range vm.Bubbles {
			line := bubble.Content
			if bubble.Time != "" {
				line = fmt.Sprintf("%s  %s", line, bubble.Time)
			}
			if bubble.Alignment == AlignRight {
				pad := width - len([]rune(line))
				if pad > 0 {
					line = strings.Repeat(" ", pad) + line
				}
			}
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
