package tools

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrTriggerUsed    = errors.New("tools: trigger already has a message")
	ErrUnknownTrigger = errors.New("tools: unknown trigger")
)

// MessagesSection holds at most one message per trigger.
type MessagesSection struct {
	Expanded bool
	msgs     []Message
}

func newMessagesSection(msgs []Message) *MessagesSection {
	return &MessagesSection{msgs: append([]Message{}, msgs...)}
}

// Available returns triggers that have no message yet, in display order.
func (s *MessagesSection) Available() []string {
	out := make([]string, 0, len(triggerOrder))
	for _, t := range triggerOrder {
		if s.index(t) < 0 {
			out = append(out, t)
		}
	}
	return out
}

// Add appends an empty message for trigger.
func (s *MessagesSection) Add(trigger string) error {
	if !knownTrigger(trigger) {
		return fmt.Errorf("%w: %q", ErrUnknownTrigger, trigger)
	}
	if s.index(trigger) >= 0 {
		return fmt.Errorf("%w: %s", ErrTriggerUsed, trigger)
	}
	s.msgs = append(s.msgs, Message{Trigger: trigger})
	return nil
}

// SetMessage changes the text for trigger. Unused triggers are ignored.
func (s *MessagesSection) SetMessage(trigger, text string) {
	if i := s.index(trigger); i >= 0 {
		s.msgs[i].Message = text
	}
}

func (s *MessagesSection) Remove(trigger string) {
	if i := s.index(trigger); i >= 0 {
		s.msgs = slices.Delete(s.msgs, i, i+1)
	}
}

// Sorted returns messages in start, success, error order regardless of insertion order.
func (s *MessagesSection) Sorted() []Message {
	out := append([]Message{}, s.msgs...)
	slices.SortStableFunc(out, func(a, b Message) int {
		return slices.Index(triggerOrder, a.Trigger) - slices.Index(triggerOrder, b.Trigger)
	})
	return out
}

// Messages returns messages in insertion order, as they are saved.
func (s *MessagesSection) Messages() []Message { return append([]Message{}, s.msgs...) }

func (s *MessagesSection) index(trigger string) int {
	return slices.IndexFunc(s.msgs, func(m Message) bool { return m.Trigger == trigger })
}
