// ============================================================================
// METADATA
// ============================================================================
// Notification hook entry point. Fans the event out to any enabled
// external channel (spec section 6's OMC_NOTIFY/OMC_TELEGRAM/…) and always
// passes through — notifications are advisory, never blocking.
package main

import (
	"omc/internal/bridge"
	"omc/internal/hookproto"
	"omc/internal/notify"
)

func main() {
	bridge.Run(hookproto.KindNotification, handle)
}

func handle(in hookproto.Input) hookproto.Output {
	notify.Fire(notify.Event{
		SessionID: in.SessionID,
		Kind:      "notification",
		Message:   in.EndTurnReason,
	})
	return hookproto.PassThrough()
}
