package msgs

const (
	MsgOperationSuccessful = "Operation successful"
	MsgOperationFailed     = "Operation failed"
	MsgYouMustLoginFirst   = "You must login first"
	MsgMessageSent         = "Message sent"

	MsgSendFailedTitle       = "Error"
	MsgSendFailedDescription = "Failed to send message. Please try again."
	MsgStartConversation     = "No messages yet. Start the conversation!"
)
