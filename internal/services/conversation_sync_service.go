package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"xelaConnect/internal/enums"
	"xelaConnect/internal/errs"
	"xelaConnect/internal/interfaces"
	"xelaConnect/internal/metrics"
	"xelaConnect/internal/models"
	"xelaConnect/internal/msgs"
	"xelaConnect/internal/validators"
	"xelaConnect/internal/views"
)

const DefaultPollInterval = 3 * time.Second

type ConversationViewOptions struct {
	PartnerID string
	ViewerID  string

	PollInterval       time.Duration
	MaxPollInterval    time.Duration
	PollRandomization  float64
	PushResyncInterval time.Duration
	Logger             zerolog.Logger
}

// ConversationView holds the client state of one mounted conversation.
//
// While mounted, a loop goroutine fetches the conversation immediately and then
// on every poll tick. Every successful fetch replaces the held conversation
// wholesale. Fetches are numbered as they are issued and a result is applied
// only when it is newer than the last applied one and the view is still the
// mount that issued it.
type ConversationView struct {
	api       interfaces.MessagingAPI
	opts      ConversationViewOptions
	logger    zerolog.Logger
	scheduler *PollScheduler

	issuedSeq atomic.Uint64
	triggers  chan string
	updates   chan struct{}

	mu            sync.Mutex
	conversation  *models.Conversation
	appliedSeq    uint64
	input         string
	sending       bool
	notifications []models.Notification
	mounted       bool
	generation    uint64
	pushConnected bool
	cancel        context.CancelFunc
	done          chan struct{}
}

func NewConversationView(api interfaces.MessagingAPI, opts ConversationViewOptions) (*ConversationView, error) {
	if err := validators.ValidatePartnerID(opts.PartnerID); err != nil {
		return nil, err
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.MaxPollInterval <= 0 {
		opts.MaxPollInterval = 10 * opts.PollInterval
	}
	if opts.PushResyncInterval <= 0 {
		opts.PushResyncInterval = 10 * opts.PollInterval
	}

	return &ConversationView{
		api:       api,
		opts:      opts,
		logger:    opts.Logger.With().Str("partner_id", opts.PartnerID).Logger(),
		scheduler: NewPollScheduler(opts.PollInterval, opts.MaxPollInterval, opts.PollRandomization),
		triggers:  make(chan string, 1),
		updates:   make(chan struct{}, 1),
	}, nil
}

func (cv *ConversationView) PartnerID() string {
	return cv.opts.PartnerID
}

// Mount activates the view: one fetch right away, then polling until Unmount
// or until ctx is cancelled.
func (cv *ConversationView) Mount(ctx context.Context) error {
	cv.mu.Lock()
	defer cv.mu.Unlock()

	if cv.mounted {
		return errs.ErrViewAlreadyMounted
	}
	loopCtx, cancel := context.WithCancel(ctx)
	cv.generation++
	cv.mounted = true
	cv.cancel = cancel
	cv.done = make(chan struct{})

	go cv.loop(loopCtx, cv.done)

	cv.logger.Debug().Uint64("generation", cv.generation).Msg("conversation view mounted")
	return nil
}

// Unmount stops polling and waits for the loop to exit. Results of fetches
// still in flight are discarded.
func (cv *ConversationView) Unmount() {
	cv.mu.Lock()
	if !cv.mounted {
		cv.mu.Unlock()
		return
	}
	cv.mounted = false
	cv.generation++
	cancel, done := cv.cancel, cv.done
	cv.cancel = nil
	cv.mu.Unlock()

	cancel()
	<-done
	cv.logger.Debug().Msg("conversation view unmounted")
}

func (cv *ConversationView) Mounted() bool {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.mounted
}

// RequestRefresh asks the loop for an out of band fetch. Requests made while
// one is already pending are coalesced.
func (cv *ConversationView) RequestRefresh(trigger string) {
	select {
	case cv.triggers <- trigger:
	default:
	}
}

// SetPushConnected switches polling between the regular interval and the
// slower resync interval used while push delivery is live. Every transition
// requests a resync fetch so nothing missed in between stays hidden.
func (cv *ConversationView) SetPushConnected(connected bool) {
	cv.mu.Lock()
	changed := cv.pushConnected != connected
	cv.pushConnected = connected
	cv.mu.Unlock()

	if changed {
		cv.RequestRefresh(enums.FETCH_TRIGGER_PUSH)
	}
}

// Refresh fetches the conversation now and applies the result if it is still
// current. The fetch error, if any, is returned after being logged.
func (cv *ConversationView) Refresh(ctx context.Context) error {
	return cv.refresh(ctx, enums.FETCH_TRIGGER_MANUAL)
}

func (cv *ConversationView) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	cv.refresh(ctx, enums.FETCH_TRIGGER_MOUNT)

	timer := time.NewTimer(cv.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			cv.refresh(ctx, enums.FETCH_TRIGGER_POLL)
		case trigger := <-cv.triggers:
			cv.refresh(ctx, trigger)
		}
		resetTimer(timer, cv.nextDelay())
	}
}

func (cv *ConversationView) nextDelay() time.Duration {
	cv.mu.Lock()
	pushConnected := cv.pushConnected
	cv.mu.Unlock()

	delay := cv.scheduler.Next()
	if pushConnected && cv.scheduler.Failures() == 0 {
		delay = cv.opts.PushResyncInterval
	}
	metrics.PollIntervalSeconds.Set(delay.Seconds())
	return delay
}

func (cv *ConversationView) refresh(ctx context.Context, trigger string) error {
	cv.mu.Lock()
	if !cv.mounted {
		cv.mu.Unlock()
		return errs.ErrViewNotMounted
	}
	generation := cv.generation
	cv.mu.Unlock()

	seq := cv.issuedSeq.Add(1)
	conversation, err := cv.api.FetchConversation(ctx, cv.opts.PartnerID)
	if err != nil {
		if errors.Is(err, context.Canceled) && !cv.isCurrent(generation) {
			return err
		}
		cv.scheduler.Failure()
		metrics.FetchesTotal.WithLabelValues(trigger, "error").Inc()
		cv.logger.Warn().
			Err(err).
			Str("trigger", trigger).
			Uint64("seq", seq).
			Int("failures", cv.scheduler.Failures()).
			Msg("conversation fetch failed, keeping previous state")
		return err
	}
	cv.scheduler.Success()
	metrics.FetchesTotal.WithLabelValues(trigger, "ok").Inc()

	cv.mu.Lock()
	defer cv.mu.Unlock()

	if !cv.mounted || cv.generation != generation {
		metrics.StaleResultsTotal.Inc()
		cv.logger.Debug().Uint64("seq", seq).Msg("dropping fetch result for torn down view")
		return nil
	}
	if seq <= cv.appliedSeq {
		metrics.StaleResultsTotal.Inc()
		cv.logger.Debug().
			Uint64("seq", seq).
			Uint64("applied_seq", cv.appliedSeq).
			Msg("dropping out of order fetch result")
		return nil
	}
	cv.appliedSeq = seq
	cv.conversation = conversation.Clone()
	cv.notifyLocked()
	return nil
}

func (cv *ConversationView) isCurrent(generation uint64) bool {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.mounted && cv.generation == generation
}

// SetInput replaces the composer text.
func (cv *ConversationView) SetInput(text string) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	cv.input = text
	cv.notifyLocked()
}

func (cv *ConversationView) Input() string {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.input
}

// CanSend reports whether the send action is enabled.
func (cv *ConversationView) CanSend() bool {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.canSendLocked()
}

func (cv *ConversationView) canSendLocked() bool {
	if cv.sending {
		return false
	}
	_, err := validators.ComposerText(cv.input)
	return err == nil
}

func (cv *ConversationView) Sending() bool {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.sending
}

// Send submits the composer text. The input is cleared before the request goes
// out and a fetch always follows, whether the send worked or not. On failure
// the original text is put back and a destructive notification is raised.
func (cv *ConversationView) Send(ctx context.Context) error {
	cv.mu.Lock()
	if !cv.mounted {
		cv.mu.Unlock()
		return errs.ErrViewNotMounted
	}
	if cv.sending {
		cv.mu.Unlock()
		return errs.ErrSendInFlight
	}
	original := cv.input
	text, err := validators.ComposerText(original)
	if err != nil {
		cv.mu.Unlock()
		return err
	}
	cv.sending = true
	cv.input = ""
	cv.notifyLocked()
	cv.mu.Unlock()

	sendErr := cv.api.SendMessage(ctx, cv.opts.PartnerID, text)
	if sendErr != nil {
		metrics.SendsTotal.WithLabelValues("error").Inc()
		cv.logger.Error().Err(sendErr).Msg("failed to send message")

		cv.mu.Lock()
		cv.input = original
		cv.notifications = append(cv.notifications, models.Notification{
			Title:       msgs.MsgSendFailedTitle,
			Description: msgs.MsgSendFailedDescription,
			Variant:     models.NotificationDestructive,
		})
		cv.notifyLocked()
		cv.mu.Unlock()
	} else {
		metrics.SendsTotal.WithLabelValues("ok").Inc()
	}

	_ = cv.refresh(ctx, enums.FETCH_TRIGGER_SEND)

	cv.mu.Lock()
	cv.sending = false
	cv.notifyLocked()
	cv.mu.Unlock()

	return sendErr
}

// Conversation returns a copy of the last applied conversation, nil before the
// first successful fetch.
func (cv *ConversationView) Conversation() *models.Conversation {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.conversation.Clone()
}

func (cv *ConversationView) Messages() []models.Message {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	if cv.conversation == nil {
		return nil
	}
	return append([]models.Message(nil), cv.conversation.Messages...)
}

// TakeNotifications returns pending notifications and clears them.
func (cv *ConversationView) TakeNotifications() []models.Notification {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	pending := cv.notifications
	cv.notifications = nil
	return pending
}

// Updates signals after every state change. Signals are coalesced.
func (cv *ConversationView) Updates() <-chan struct{} {
	return cv.updates
}

// Render builds the view model for the current state.
func (cv *ConversationView) Render() views.ConversationViewModel {
	cv.mu.Lock()
	defer cv.mu.Unlock()

	vm := views.RenderConversation(cv.conversation, cv.opts.ViewerID)
	vm.Input = cv.input
	vm.CanSend = cv.canSendLocked()
	return vm
}

func (cv *ConversationView) notifyLocked() {
	select {
	case cv.updates <- struct{}{}:
	default:
	}
}

func resetTimer(timer *time.Timer, d time.Duration) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(d)
}
