package chat

import (
	"context"
	"strings"

	"github.com/golang/glog"

	"github.com/diogo/webhookchat/internal/api"
	apierrors "github.com/diogo/webhookchat/internal/errors"
	"github.com/diogo/webhookchat/internal/models"
)

// Playback starts a clip for a message. *audio.Coordinator implements it.
type Playback interface {
	Start(url, messageID string) error
}

// Turn identifies the messages a submission added to the store
type Turn struct {
	UserID        string
	PlaceholderID string
	Query         string
}

// Outcome is the result of resolving a turn
type Outcome struct {
	Turn    Turn
	Message models.Message // bot message that replaced the placeholder
	Reply   *models.Reply  // nil when the request failed
	Err     error          // request failure, already shown as Message
}

// Failed reports whether the webhook request failed
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Controller runs the submit → placeholder → request → replace cycle
type Controller struct {
	client   api.WebhookClientInterface
	store    *Store
	playback Playback
	greeting string
	autoplay bool
}

// Option configures a Controller
type Option func(*Controller)

// WithPlayback sets the coordinator replies with audio are started on
func WithPlayback(p Playback) Option {
	return func(c *Controller) {
		c.playback = p
	}
}

// WithGreeting sets the bot message a conversation starts with; "" disables it
func WithGreeting(text string) Option {
	return func(c *Controller) {
		c.greeting = text
	}
}

// WithAutoplay controls whether replies with audio start playing on arrival
func WithAutoplay(enabled bool) Option {
	return func(c *Controller) {
		c.autoplay = enabled
	}
}

// WithStore uses an existing store instead of a fresh one
func WithStore(s *Store) Option {
	return func(c *Controller) {
		c.store = s
	}
}

// NewController creates a controller and seeds the greeting
func NewController(client api.WebhookClientInterface, opts ...Option) *Controller {
	c := &Controller{
		client:   client,
		greeting: models.DefaultGreeting,
		autoplay: true,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.store == nil {
		c.store = NewStore()
	}
	if c.greeting != "" {
		c.store.Append(models.NewBotMessage(c.greeting, ""))
	}

	return c
}

// Store returns the conversation
func (c *Controller) Store() *Store {
	return c.store
}

// Messages returns a snapshot of the conversation
func (c *Controller) Messages() []models.Message {
	return c.store.Messages()
}

// Begin appends the user message and the "Thinking..." placeholder.
// Blank input is rejected with ErrEmptySubmission and leaves the store untouched.
func (c *Controller) Begin(text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		return Turn{}, apierrors.ErrEmptySubmission
	}

	user := models.NewUserMessage(text)
	c.store.Append(user)

	placeholder := models.NewPlaceholderMessage()
	c.store.Append(placeholder)

	return Turn{
		UserID:        user.ID,
		PlaceholderID: placeholder.ID,
		Query:         text,
	}, nil
}

// Resolve sends the turn's query and replaces its placeholder with the reply,
// or with an "Error: ..." message when the request failed. A reply with audio
// is started once when autoplay is on; a rejected start only resets playback.
func (c *Controller) Resolve(ctx context.Context, turn Turn) Outcome {
	out := Outcome{Turn: turn}

	reply, err := c.send(ctx, turn.Query)
	if err != nil {
		glog.Errorf("chat: request failed: %v", err)
		out.Err = err
		out.Message = models.NewErrorMessage(err)
		c.store.Replace(turn.PlaceholderID, out.Message)
		return out
	}

	out.Reply = reply
	out.Message = reply.Message()
	c.store.Replace(turn.PlaceholderID, out.Message)

	if out.Message.HasAudio() && c.autoplay && c.playback != nil {
		// failure is logged by the coordinator and already reset
		_ = c.playback.Start(out.Message.AudioURL, out.Message.ID)
	}

	return out
}

func (c *Controller) send(ctx context.Context, query string) (*models.Reply, error) {
	if c.client == nil || !c.client.IsConfigured() {
		return nil, apierrors.NewConfigError("webhook_url", "")
	}

	reply, err := c.client.SendQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, apierrors.NewAPIError(0, "", "")
	}
	return reply, nil
}

// Submit runs a whole turn synchronously
func (c *Controller) Submit(ctx context.Context, text string) (Outcome, error) {
	turn, err := c.Begin(text)
	if err != nil {
		return Outcome{}, err
	}
	return c.Resolve(ctx, turn), nil
}
