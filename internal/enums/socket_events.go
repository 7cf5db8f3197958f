package enums

const (
	SOCKET_EVENT_NEW_MESSAGE = "new_message"
	SOCKET_EVENT_READY       = "ready"
)

const (
	FETCH_TRIGGER_MOUNT  = "mount"
	FETCH_TRIGGER_POLL   = "poll"
	FETCH_TRIGGER_SEND   = "send"
	FETCH_TRIGGER_PUSH   = "push"
	FETCH_TRIGGER_MANUAL = "manual"
)
