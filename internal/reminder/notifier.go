package reminder

import (
	"context"
	"time"
)

// Permission is the OS notification permission state.
type Permission string

const (
	PermissionGranted     Permission = "granted"
	PermissionDenied      Permission = "denied"
	PermissionDefault     Permission = "default"
	PermissionUnsupported Permission = "unsupported"
)

// Notification is one fired reminder.
type Notification struct {
	TaskID             string
	Kind               Kind
	Title              string
	Body               string
	Tag                string
	RequireInteraction bool
	FiredAt            time.Time
}

// Notifier shows OS-level notifications.
//
//go:generate mockgen -source=notifier.go -destination=mock_notifier_test.go -package=reminder
type Notifier interface {
	Permission() Permission
	RequestPermission(ctx context.Context) (bool, error)
	Show(ctx context.Context, n Notification) error
}

// NopNotifier never shows anything.
type NopNotifier struct{}

func (NopNotifier) Permission() Permission { return PermissionUnsupported }

func (NopNotifier) RequestPermission(context.Context) (bool, error) { return false, nil }

func (NopNotifier) Show(context.Context, Notification) error { return nil }
