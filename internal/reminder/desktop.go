package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"github.com/akyairhashvil/streakboard/internal/config"
	"github.com/akyairhashvil/streakboard/internal/database"
)

var ErrUnsupported = errors.New("desktop notifications unsupported")

// beeepPlatforms are the GOOS values beeep can deliver on.
var beeepPlatforms = []string{"linux", "freebsd", "netbsd", "openbsd", "darwin", "windows"}

// DesktopNotifier shows OS notifications through beeep. The permission
// decision is kept in the key/value store.
type DesktopNotifier struct {
	mu        sync.Mutex
	kv        database.Store
	logger    *zap.Logger
	supported bool

	notify func(title, body string, urgent bool) error
}

func NewDesktopNotifier(kv database.Store, logger *zap.Logger) *DesktopNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DesktopNotifier{
		kv:        kv,
		logger:    logger,
		supported: platformSupported(runtime.GOOS),
		notify:    beeepNotify,
	}
}

func platformSupported(goos string) bool {
	return slices.Contains(beeepPlatforms, goos)
}

// beeepNotify raises an alert, which also plays the system sound, for
// reminders that need attention and a plain notification otherwise.
func beeepNotify(title, body string, urgent bool) error {
	if urgent {
		return beeep.Alert(title, body, "")
	}
	return beeep.Notify(title, body, "")
}

func (d *DesktopNotifier) Permission() Permission {
	if !d.supported {
		return PermissionUnsupported
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.storedLocked()
}

func (d *DesktopNotifier) storedLocked() Permission {
	if d.kv == nil {
		return PermissionDefault
	}
	raw, ok, err := d.kv.Get(config.KeyNotificationPermission)
	if err != nil || !ok {
		return PermissionDefault
	}
	var p Permission
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return PermissionDefault
	}
	switch p {
	case PermissionGranted, PermissionDenied:
		return p
	default:
		return PermissionDefault
	}
}

// RequestPermission records the user's opt-in. The terminal keypress that
// triggers it is the consent.
func (d *DesktopNotifier) RequestPermission(ctx context.Context) (bool, error) {
	if !d.supported {
		return false, nil
	}
	return true, d.setPermission(PermissionGranted)
}

// Revoke records an opt-out.
func (d *DesktopNotifier) Revoke() error {
	return d.setPermission(PermissionDenied)
}

func (d *DesktopNotifier) setPermission(p Permission) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.kv == nil {
		return nil
	}
	raw, _ := json.Marshal(p)
	if err := d.kv.Set(config.KeyNotificationPermission, string(raw)); err != nil {
		return err
	}
	d.logger.Info("notification_permission_changed", zap.String("permission", string(p)))
	return nil
}

func (d *DesktopNotifier) Show(ctx context.Context, n Notification) error {
	if !d.supported {
		return ErrUnsupported
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.notify(n.Title, n.Body, n.RequireInteraction); err != nil {
		return fmt.Errorf("show notification %s: %w", n.Tag, err)
	}
	return nil
}
