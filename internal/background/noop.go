// Package background implements the Background Resilience Layer: a mechanism
// that keeps tracking the countdown and can ring the completion alarm on its
// own when the foreground owner context is stalled.
package background

import "time"

// Noop is the layer for hosts without a background story. The platform never
// rings the alarm, so the controller always does.
type Noop struct{}

func (Noop) StartTracking(time.Time) {}
func (Noop) StopTracking() {}
func (Noop) UpdateRemaining(int) {}
func (Noop) CompletionAlarmStartedByPlatform() bool { return false }
func (Noop) ClearAlarmFlag() {}
func (Noop) UpdateAlarmSettings(bool, bool, int) {}
