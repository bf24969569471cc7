// Package notify adapts the notification platform to the reconciliation
// engine: permission handling, payload building and best-effort batch
// cancellation.
package notify

import (
	"context"
	"fmt"

	"github.com/Raimguhinov/remind-go/internal/platform"
	"github.com/Raimguhinov/remind-go/internal/reminder"
	"github.com/Raimguhinov/remind-go/pkg/logger"
)

type Gateway struct {
	platform *platform.Scheduler
	logger   *logger.Logger
	payload  *payloadBuilder
}

func New(p *platform.Scheduler, l *logger.Logger, attachmentDir string) *Gateway {
	return &Gateway{
		platform: p,
		logger:   l,
		payload:  newPayloadBuilder(l, attachmentDir),
	}
}

// EnsurePermission checks the platform decision, requesting one if it is
// still open. A denial is reported as reminder.ErrPermissionDenied so callers
// can fall back to saving silent reminders.
func (g *Gateway) EnsurePermission(_ context.Context) error {
	perm := g.platform.Permission()
	if perm == platform.PermissionUndecided {
		perm = g.platform.RequestPermission()
	}
	if perm != platform.PermissionGranted {
		return reminder.ErrPermissionDenied
	}
	return nil
}

// Schedule realizes one trigger and returns the platform handle.
func (g *Gateway) Schedule(
	_ context.Context,
	trig reminder.Trigger,
	payload reminder.Payload,
) (string, error) {
	handle, err := g.platform.Schedule(g.payload.build(payload), trig)
	if err != nil {
		return "", fmt.Errorf("notifyGateway - Schedule - platform.Schedule: %w", err)
	}
	return handle, nil
}

// Cancel retracts one handle. The platform treats unknown and already-fired
// handles as a no-op, so Cancel never fails on them.
func (g *Gateway) Cancel(_ context.Context, handle string) error {
	g.platform.Cancel(handle)
	return nil
}

// CancelMany cancels each handle independently and reports per-handle
// outcomes; one failure never stops the rest.
func (g *Gateway) CancelMany(ctx context.Context, handles []string) reminder.BatchResult {
	result := make(reminder.BatchResult, 0, len(handles))
	for _, handle := range handles {
		result = append(result, reminder.CancelOutcome{
			Handle: handle,
			Err:    g.Cancel(ctx, handle),
		})
	}
	return result
}
