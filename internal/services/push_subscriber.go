package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"xelaConnect/internal/enums"
	"xelaConnect/internal/interfaces"
	"xelaConnect/internal/metrics"
	socketModels "xelaConnect/internal/models/socket"
)

// RefreshTarget is what the push subscriber drives; ConversationView satisfies it.
type RefreshTarget interface {
	PartnerID() string
	RequestRefresh(trigger string)
	SetPushConnected(connected bool)
}

// PushSubscriber keeps a websocket open to the messaging service and turns
// new_message events for the watched partner into re-fetches. Events carry no
// message content; state still only changes through a full fetch.
type PushSubscriber struct {
	url         string
	credentials interfaces.CredentialProvider
	dialer      *websocket.Dialer
	logger      zerolog.Logger
	newBackOff  func() backoff.BackOff
}

func NewPushSubscriber(url string, credentials interfaces.CredentialProvider, logger zerolog.Logger) *PushSubscriber {
	return &PushSubscriber{
		url:         url,
		credentials: credentials,
		dialer:      websocket.DefaultDialer,
		logger:      logger.With().Str("component", "push").Logger(),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// WithReconnectBackOff overrides the reconnect policy.
func (ps *PushSubscriber) WithReconnectBackOff(newBackOff func() backoff.BackOff) *PushSubscriber {
	ps.newBackOff = newBackOff
	return ps
}

// Run blocks until ctx is done, reconnecting with backoff whenever the socket
// drops. While disconnected the target falls back to regular polling.
func (ps *PushSubscriber) Run(ctx context.Context, target RefreshTarget) error {
	reconnect := backoff.WithContext(ps.newBackOff(), ctx)

	for {
		conn, err := ps.dial(ctx)
		if err == nil {
			reconnect.Reset()
			target.SetPushConnected(true)
			err = ps.consume(ctx, conn, target)
			target.SetPushConnected(false)
		}
		if ctx.Err() != nil {
			return nil
		}

		delay := reconnect.NextBackOff()
		if delay == backoff.Stop {
			return err
		}
		ps.logger.Warn().Err(err).Dur("retry_in", delay).Msg("push channel unavailable, polling only")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
}

func (ps *PushSubscriber) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if ps.credentials != nil {
		token, err := ps.credentials.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, resp, err := ps.dialer.DialContext(ctx, ps.url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	ps.logger.Debug().Str("url", ps.url).Msg("push channel connected")
	return conn, nil
}

func (ps *PushSubscriber) consume(ctx context.Context, conn *websocket.Conn, target RefreshTarget) error {
	stop := context.AfterFunc(ctx, func() {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	})
	defer stop()
	defer conn.Close()

	for {
		var event socketModels.SocketEvent
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("push channel closed by server")
			}
			return err
		}
		metrics.PushEventsTotal.WithLabelValues(event.Event).Inc()

		switch event.Event {
		case enums.SOCKET_EVENT_NEW_MESSAGE:
			var payload socketModels.NewMessagePayload
			if err := json.Unmarshal(event.Payload, &payload); err != nil {
				ps.logger.Warn().Err(err).Msg("malformed new_message payload")
				continue
			}
			partner := target.PartnerID()
			if payload.SenderID == partner || payload.RecipientID == partner {
				target.RequestRefresh(enums.FETCH_TRIGGER_PUSH)
			}
		case enums.SOCKET_EVENT_READY:
		default:
			ps.logger.Debug().Str("event", event.Event).Msg("ignoring push event")
		}
	}
}
