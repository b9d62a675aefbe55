package view

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fitpulse/fitpulse/internal/gateway"
	"github.com/fitpulse/fitpulse/internal/schedule"
)

// MessageGateway is the slice of the API client the messaging views
// consume. Messaging is read-only here.
type MessageGateway interface {
	GetConversations(ctx context.Context) ([]gateway.Conversation, error)
	GetMessages(ctx context.Context, conversationID string) ([]gateway.Message, error)
}

// Inbox is the screen-scoped state for the conversation list. It polls
// on a slow interval while mounted and stops cleanly on Close.
type Inbox struct {
	gw     MessageGateway
	logger zerolog.Logger
	poller *schedule.Poller

	mu            sync.Mutex
	closed        bool
	conversations []gateway.Conversation
}

// NewInbox builds the conversation-list state and starts polling.
func NewInbox(ctx context.Context, gw MessageGateway, logger zerolog.Logger) *Inbox {
	in := &Inbox{gw: gw, logger: logger}
	in.poller = schedule.NewPoller(schedule.PollerConfig{
		Interval:  schedule.ConversationListPollInterval,
		Task:      in.refresh,
		Immediate: true,
		Logger:    logger,
	})
	in.poller.Start(ctx)
	return in
}

func (in *Inbox) refresh(ctx context.Context) error {
	conversations, err := in.gw.GetConversations(ctx)
	if err != nil {
		return err
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return nil
	}
	in.conversations = conversations
	return nil
}

// Conversations returns the latest polled list.
func (in *Inbox) Conversations() []gateway.Conversation {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.conversations
}

// Close stops the poller; a late tick cannot write after this returns.
func (in *Inbox) Close() {
	in.mu.Lock()
	in.closed = true
	in.mu.Unlock()
	in.poller.Stop()
}

// Thread is the screen-scoped state for one open conversation. It polls
// faster than the inbox so the open thread feels live.
type Thread struct {
	gw             threadGateway
	logger         zerolog.Logger
	poller         *schedule.Poller
	conversationID string

	mu       sync.Mutex
	closed   bool
	messages []gateway.Message
}

type threadGateway interface {
	GetMessages(ctx context.Context, conversationID string) ([]gateway.Message, error)
}

// NewThread builds the open-conversation state and starts polling.
func NewThread(ctx context.Context, gw MessageGateway, conversationID string, logger zerolog.Logger) *Thread {
	th := &Thread{gw: gw, conversationID: conversationID, logger: logger}
	th.poller = schedule.NewPoller(schedule.PollerConfig{
		Interval:  schedule.ConversationPollInterval,
		Task:      th.refresh,
		Immediate: true,
		Logger:    logger,
	})
	th.poller.Start(ctx)
	return th
}

func (th *Thread) refresh(ctx context.Context) error {
	messages, err := th.gw.GetMessages(ctx, th.conversationID)
	if err != nil {
		return err
	}
	th.mu.Lock()
	defer th.mu.Unlock()
	if th.closed {
		return nil
	}
	th.messages = messages
	return nil
}

// Messages returns the latest polled thread contents.
func (th *Thread) Messages() []gateway.Message {
	th.mu.Lock()
	defer th.mu.Unlock()
	return th.messages
}

// Close stops the poller; a late tick cannot write after this returns.
func (th *Thread) Close() {
	th.mu.Lock()
	th.closed = true
	th.mu.Unlock()
	th.poller.Stop()
}
