// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"serviceconnect-backend/models"
	"serviceconnect-backend/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService reminds customers of confirmed bookings due tomorrow.
type ReminderService struct {
	market   *Marketplace
	notifier Notifier
	clock    Clock
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewReminderService(market *Marketplace, notifier Notifier, logger *zap.Logger) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = market.notifier
	}
	return &ReminderService{
		market:   market,
		notifier: notifier,
		clock:    market.clock,
		logger:   logger,
	}
}

// StartScheduler runs SendDailyReminders on the cron schedule spec
// (utils.DefaultReminderSchedule when empty).
func (s *ReminderService) StartScheduler(spec string) error {
	if spec == "" {
		spec = utils.DefaultReminderSchedule
	}
	c := utils.NewReminderScheduler(time.Local)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.SendDailyReminders(ctx); err != nil {
			s.logger.Error("daily reminders failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("reminder scheduler started", zap.String("schedule", spec))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
}

// SendDailyReminders notifies the customer of every confirmed booking dated
// tomorrow and returns how many notifications went out.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (int, error) {
	s.logger.Info("starting daily reminder processing")

	bookings, err := s.market.ListBookings(ctx, models.BookingFilter{Status: models.BookingConfirmed})
	if err != nil {
		return 0, fmt.Errorf("reminders: %w", err)
	}

	now := s.clock.Now()
	sent := 0
	for _, b := range bookings {
		day, err := utils.ParseDate(b.Date, now.Location())
		if err != nil {
			s.logger.Warn("skipping booking with unreadable date",
				zap.Int64("booking_id", b.ID), zap.String("date", b.Date))
			continue
		}
		if utils.DaysBetween(now, day) != 1 {
			continue
		}
		if err := s.notifier.Notify(ctx, BookingNotification(models.EventBookingReminder, b)); err != nil {
			s.logger.Warn("failed to send reminder", zap.Int64("booking_id", b.ID), zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("daily reminder processing completed", zap.Int("sent", sent))
	return sent, nil
}
