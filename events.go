package hob

import (
	"context"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// processEvent handles a socket mode event. Requests are acknowledged before any processing
func (h *Hob) processEvent(ctx context.Context, evt socketmode.Event, ack acker) {
	h.msgsSeen.Inc()

	switch evt.Type {
	case socketmode.EventTypeConnecting:
		h.log.Printf("Connecting to slack in socket mode...")

	case socketmode.EventTypeConnected:
		h.log.Printf("Connected to slack in socket mode")

	case socketmode.EventTypeConnectionError:
		h.log.Printf("Connection error: %v", evt.Data)

	case socketmode.EventTypeDisconnect:
		h.log.Printf("Disconnected from slack, a reconnection will follow")

	case socketmode.EventTypeEventsAPI:
		h.acknowledge(evt, ack)

		e, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			h.log.Debugf("Ignoring unexpected events api payload [%T]", evt.Data)
			return
		}

		h.processEventsAPIEvent(e)

	case socketmode.EventTypeSlashCommand:
		h.acknowledge(evt, ack)

		c, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			h.log.Debugf("Ignoring unexpected slash command payload [%T]", evt.Data)
			return
		}

		h.processSlashCommand(&SlashCommand{
			Command:   c.Command,
			Text:      c.Text,
			Channel:   c.ChannelID,
			User:      c.UserID,
			UserName:  c.UserName,
			TriggerID: c.TriggerID,
		})

	default:
		h.log.Debugf("Ignoring event of type [%s]", evt.Type)
	}
}

func (h *Hob) acknowledge(evt socketmode.Event, ack acker) {
	if evt.Request != nil {
		ack.Ack(*evt.Request)
	}
}

// processEventsAPIEvent routes messages and mentions to their channel partition
func (h *Hob) processEventsAPIEvent(e slackevents.EventsAPIEvent) {
	if e.Type != slackevents.CallbackEvent {
		h.log.Debugf("Ignoring events api event of type [%s]", e.Type)
		return
	}

	switch ev := e.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		if h.isSelf(ev.User, ev.BotID) {
			return
		}

		if ev.SubType == messageDeletedSubType {
			if ev.PreviousMessage == nil {
				return
			}

			deleted := messageID{channelID: ev.Channel, timestamp: ev.PreviousMessage.TimeStamp}
			h.router.route(routedEvent{channelID: ev.Channel, process: func(ctx context.Context) {
				h.processDeletedMessage(ctx, deleted)
			}})
			return
		}

		m := &Message{Channel: ev.Channel, User: ev.User, Text: ev.Text, Timestamp: ev.TimeStamp, ThreadTimestamp: ev.ThreadTimeStamp, SubType: ev.SubType, BotID: ev.BotID}
		h.router.route(routedEvent{channelID: m.Channel, process: func(ctx context.Context) {
			h.processMessage(ctx, newMsgType, m, h.registry.Dispatch)
		}})

	case *slackevents.AppMentionEvent:
		if h.isSelf(ev.User, ev.BotID) {
			return
		}

		m := &Message{Channel: ev.Channel, User: ev.User, Text: ev.Text, Timestamp: ev.TimeStamp, ThreadTimestamp: ev.ThreadTimeStamp, BotID: ev.BotID}
		h.router.route(routedEvent{channelID: m.Channel, process: func(ctx context.Context) {
			h.processMessage(ctx, mentionMsgType, m, h.registry.DispatchMention)
		}})

	default:
		h.log.Debugf("Ignoring inner event of type [%s]", e.InnerEvent.Type)
	}
}

// isSelf returns true if the author is this bot
func (h *Hob) isSelf(userID string, botID string) bool {
	return (userID != "" && userID == h.selfID) || (botID != "" && botID == h.selfBotID)
}

// processMessage dispatches a message and sends out the answers
func (h *Hob) processMessage(ctx context.Context, msgType string, m *Message, dispatch func(ctx context.Context, m *Message) []*OutgoingAnswer) {
	before := time.Now()
	defer func() {
		h.recordProcessed(msgType, time.Since(before))
	}()

	h.log.Debugf("Processing %s message [%s] on channel [%s]", msgType, m.Timestamp, m.Channel)

	h.sendAnswers(ctx, m, dispatch(ctx, m))
}

// processSlashCommand dispatches a slash command and sends out its answer. Answers to slash
// commands aren't tracked since there is no triggering message to delete
func (h *Hob) processSlashCommand(c *SlashCommand) {
	h.router.route(routedEvent{channelID: c.Channel, process: func(ctx context.Context) {
		before := time.Now()
		defer func() {
			h.recordProcessed(slashMsgType, time.Since(before))
		}()

		if a := h.registry.DispatchSlash(ctx, c); a != nil {
			h.send(ctx, &Message{Channel: c.Channel, User: c.User}, a)
		}
	}})
}

// processDeletedMessage deletes the responses previously triggered by a now deleted message
func (h *Hob) processDeletedMessage(ctx context.Context, deleted messageID) {
	before := time.Now()
	defer func() {
		h.recordProcessed(deleteMsgType, time.Since(before))
	}()

	cached, exists := h.responses.Get(deleted)
	if !exists {
		return
	}

	for answerID, r := range cached.(map[string]messageID) {
		if _, _, err := h.driver.DeleteMessageContext(ctx, r.channelID, r.timestamp); err != nil {
			h.log.Printf("Error deleting response [%s] from [%s] to deleted message [%s]: %v", r.timestamp, answerID, deleted.timestamp, err)
		}
	}

	h.responses.Remove(deleted)
}

// sendAnswers sends the answers to a message and tracks the responses for the message
func (h *Hob) sendAnswers(ctx context.Context, m *Message, answers []*OutgoingAnswer) {
	sent := make(map[string]messageID)

	for _, a := range answers {
		if r, ok := h.send(ctx, m, a); ok {
			sent[a.ID] = r
		}
	}

	if len(sent) > 0 {
		h.log.Debugf("Tracking %d responses to message [%s] on channel [%s]", len(sent), m.Timestamp, m.Channel)
		h.responses.Add(idOf(m), sent)
	}
}

// send delivers an answer. Ephemeral answers aren't tracked and yield ok false
func (h *Hob) send(ctx context.Context, m *Message, a *OutgoingAnswer) (r messageID, ok bool) {
	sc := resolveSendConfig(m, a.Answer, h.defaultThreaded, h.defaultBroadcast)

	if sc.ephemeralUserID != "" {
		if _, err := h.driver.PostEphemeralContext(ctx, a.Channel, sc.ephemeralUserID, sc.msgOptions(a.Answer)...); err != nil {
			h.log.Printf("Error sending ephemeral answer from [%s] to [%s]: %v", a.ID, sc.ephemeralUserID, err)
		}

		return r, false
	}

	channelID, timestamp, err := h.driver.PostMessageContext(ctx, a.Channel, sc.msgOptions(a.Answer)...)
	if err != nil {
		h.log.Printf("Error sending answer from [%s] on channel [%s]: %v", a.ID, a.Channel, err)
		return r, false
	}

	return messageID{channelID: channelID, timestamp: timestamp}, true
}
