// Package notify mirrors committed booking changes to Firebase RTDB for
// live detail pages and pushes assignment alerts over FCM.
package notify

import (
	"context"
	"fmt"
	"strconv"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"bazaar/internal/infra"
	"bazaar/internal/modules/booking"
	"bazaar/internal/modules/user"
	"bazaar/internal/types"
)

// statusEntry mirrors one booking under the /booking_status node. Customer
// detail pages subscribe to /booking_status/{id} and re-render on change.
type statusEntry struct {
	Vertical   string `json:"vertical"`
	Status     string `json:"status"`
	AssigneeID string `json:"assignee_id,omitempty"`
	UpdatedAt  int64  `json:"updated_at"`
}

// Service implements booking.Notifier. Mirror and push failures are logged
// and dropped: the canonical write has already committed and a retry loop
// here would only delay it (the page re-reads on next load anyway).
type Service struct {
	fb    *infra.Firebase
	users *user.Service
}

func NewService(fb *infra.Firebase, users *user.Service) *Service {
	return &Service{fb: fb, users: users}
}

func (s *Service) BookingChanged(ctx context.Context, b *booking.Booking) {
	rtdb := s.fb.RTDB()
	if rtdb == nil {
		return
	}
	entry := statusEntry{
		Vertical:  string(b.Vertical),
		Status:    string(b.Status),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
	}
	if b.AssigneeID != nil {
		entry.AssigneeID = string(*b.AssigneeID)
	}
	ref := rtdb.NewRef("booking_status/" + string(b.ID))
	if err := ref.Set(ctx, entry); err != nil {
		zap.L().Warn("mirroring booking status",
			zap.String("booking_id", b.ID.String()), zap.Error(err))
	}
}

// BookingAssigned sends an FCM data message to the assignee's device.
func (s *Service) BookingAssigned(ctx context.Context, b *booking.Booking, assigneeID types.ID) {
	profile, err := s.users.Get(ctx, assigneeID)
	if err != nil {
		zap.L().Warn("loading assignee profile for push",
			zap.String("assignee_id", assigneeID.String()), zap.Error(err))
		return
	}
	if profile.DeviceToken == nil || *profile.DeviceToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: *profile.DeviceToken,
		Data: map[string]string{
			"type":        "new_assignment",
			"booking_id":  string(b.ID),
			"vertical":    string(b.Vertical),
			"pickup_lat":  strconv.FormatFloat(b.Pickup.Position.Lat, 'f', 6, 64),
			"pickup_lng":  strconv.FormatFloat(b.Pickup.Position.Lng, 'f', 6, 64),
			"dropoff_lat": strconv.FormatFloat(b.Dropoff.Position.Lat, 'f', 6, 64),
			"dropoff_lng": strconv.FormatFloat(b.Dropoff.Position.Lng, 'f', 6, 64),
		},
		Notification: &messaging.Notification{
			Title: "New task assigned",
			Body:  fmt.Sprintf("Pickup at %s", b.Pickup.Address),
		},
		Android: &messaging.AndroidConfig{Priority: "high"},
	}

	if _, err := s.fb.Messaging().Send(ctx, msg); err != nil {
		zap.L().Warn("sending assignment push",
			zap.String("booking_id", b.ID.String()), zap.Error(err))
	}
}
