// services/notification_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"serviceconnect-backend/models"
	"serviceconnect-backend/store"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Notifier delivers a booking notification to the customer.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

// BookingNotification builds the customer-facing message for event.
func BookingNotification(event models.NotificationEvent, b models.Booking) models.Notification {
	provider := b.ProviderName
	if provider == "" {
		provider = "the provider"
	}

	var msg string
	switch event {
	case models.EventBookingCreated:
		msg = fmt.Sprintf("Booking #%d created successfully! You'll receive updates about provider assignment.", b.ID)
	case models.EventBookingAccepted:
		msg = fmt.Sprintf("Booking #%d has been accepted by %s!", b.ID, provider)
	case models.EventBookingRejected:
		msg = fmt.Sprintf("Booking #%d has been rejected by %s. We'll find another provider for you.", b.ID, provider)
	case models.EventBookingCompleted:
		msg = fmt.Sprintf("Booking #%d has been completed! Please rate your experience.", b.ID)
	case models.EventBookingCancelled:
		msg = fmt.Sprintf("Booking #%d cancelled successfully!", b.ID)
	case models.EventBookingReminder:
		msg = fmt.Sprintf("Hi %s, reminder: your %s booking #%d is on %s at %s.", b.Name, b.ServiceName, b.ID, b.Date, b.Time)
	default:
		msg = fmt.Sprintf("Booking #%d updated successfully!", b.ID)
	}

	return models.Notification{
		Event:     event,
		BookingID: b.ID,
		To:        b.Phone,
		Message:   msg,
	}
}

// NotificationLogs returns every recorded delivery attempt, oldest first.
func NotificationLogs(ctx context.Context, kv store.KV) ([]models.NotificationLog, error) {
	logs, err := loadLog[models.NotificationLog](ctx, kv, store.KeyNotifications)
	if err != nil {
		return nil, fmt.Errorf("notification logs: %w", err)
	}
	if logs == nil {
		logs = []models.NotificationLog{}
	}
	return logs, nil
}

// deliveryLog appends NotificationLog records to storage. A nil kv disables it.
type deliveryLog struct {
	kv    store.KV
	clock Clock

	mu     sync.Mutex
	lastID int64
}

func (d *deliveryLog) record(ctx context.Context, entry models.NotificationLog) error {
	if d == nil || d.kv == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	clock := d.clock
	if clock == nil {
		clock = SystemClock
	}
	now := clock.Now().UTC()
	id := now.UnixMilli()
	if id <= d.lastID {
		id = d.lastID + 1
	}
	d.lastID = id

	entry.ID = id
	entry.SentAt = now
	return appendLog(ctx, d.kv, store.KeyNotifications, entry)
}

// LogNotifier writes notifications to the application log instead of
// sending them. Set KV to also keep a delivery record.
type LogNotifier struct {
	Logger *zap.Logger
	KV     store.KV
	Clock  Clock

	once sync.Once
	log  *deliveryLog
}

func (n *LogNotifier) Notify(ctx context.Context, msg models.Notification) error {
	n.once.Do(func() { n.log = &deliveryLog{kv: n.KV, clock: n.Clock} })

	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("notification",
		zap.String("event", string(msg.Event)),
		zap.Int64("booking_id", msg.BookingID),
		zap.String("to", msg.To),
		zap.String("message", msg.Message))

	return n.log.record(ctx, models.NotificationLog{
		BookingID: msg.BookingID,
		Event:     msg.Event,
		Channel:   "log",
		To:        msg.To,
		Message:   msg.Message,
		Status:    "sent",
	})
}

// messageSender is the part of the Twilio REST API the notifier uses.
type messageSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioConfig holds the account credentials and sender numbers.
type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

// TwilioNotifier sends notifications over WhatsApp when the phone number is
// in E.164 form and over SMS otherwise, recording every attempt.
type TwilioNotifier struct {
	sender messageSender
	cfg    TwilioConfig
	log    *deliveryLog
	logger *zap.Logger
}

func NewTwilioNotifier(cfg TwilioConfig, kv store.KV, clock Clock, logger *zap.Logger) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newTwilioNotifier(client.Api, cfg, kv, clock, logger)
}

func newTwilioNotifier(sender messageSender, cfg TwilioConfig, kv store.KV, clock Clock, logger *zap.Logger) *TwilioNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TwilioNotifier{
		sender: sender,
		cfg:    cfg,
		log:    &deliveryLog{kv: kv, clock: clock},
		logger: logger,
	}
}

func (n *TwilioNotifier) Notify(ctx context.Context, msg models.Notification) error {
	phone := strings.TrimSpace(msg.To)
	if phone == "" {
		return errors.New("notification has no recipient")
	}

	channel := "sms"
	to := phone
	from := n.cfg.PhoneNumber
	if strings.HasPrefix(phone, "+") && n.cfg.WhatsAppNumber != "" {
		channel = "whatsapp"
		to = "whatsapp:" + phone
		from = "whatsapp:" + n.cfg.WhatsAppNumber
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(msg.Message)

	entry := models.NotificationLog{
		BookingID: msg.BookingID,
		Event:     msg.Event,
		Channel:   channel,
		To:        phone,
		Message:   msg.Message,
		Status:    "sent",
	}

	resp, sendErr := n.sender.CreateMessage(params)
	switch {
	case sendErr != nil:
		n.logger.Warn("failed to send message", zap.String("to", phone), zap.String("channel", channel), zap.Error(sendErr))
		entry.Status = "failed"
		entry.ErrorMessage = sendErr.Error()
	case resp != nil && resp.Sid != nil:
		n.logger.Info("message sent", zap.String("to", phone), zap.String("sid", *resp.Sid))
	default:
		n.logger.Info("message sent without sid", zap.String("to", phone))
	}

	if err := n.log.record(ctx, entry); err != nil {
		n.logger.Warn("failed to record notification", zap.Int64("booking_id", msg.BookingID), zap.Error(err))
	}
	if sendErr != nil {
		return fmt.Errorf("send %s to %s: %w", channel, phone, sendErr)
	}
	return nil
}
