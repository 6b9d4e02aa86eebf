package dashboard

import (
	"time"

	"kushl/internal/api"
	"kushl/internal/config"
	"kushl/internal/coordinator"
	"kushl/internal/voice"
)

// Completion messages for the async commands in commands.go. Each carries
// enough context for Update to detect results that arrived after the user
// moved on.
type (
	// sessionsMsg delivers a session list refresh.
	sessionsMsg struct {
		sessions []api.Session
		err      error
	}

	// sessionCreatedMsg delivers a freshly provisioned session. greet asks
	// for the welcome message in the new transcript.
	sessionCreatedMsg struct {
		id    string
		greet bool
		err   error
	}

	// messagesLoadedMsg delivers one session's history. sessionID lets
	// Update drop loads for sessions that are no longer active.
	messagesLoadedMsg struct {
		sessionID string
		title     string
		messages  []api.Message
		err       error
	}

	// sendDoneMsg delivers the outcome of a send; the ticket pins the
	// origin session.
	sendDoneMsg struct {
		ticket   coordinator.Ticket
		response string
		err      error
	}

	// sessionDeletedMsg delivers a delete. When the deleted session was
	// active the command also provisioned a replacement; that outcome is
	// carried separately because the delete may succeed server-side even
	// when provisioning fails.
	sessionDeletedMsg struct {
		id            string
		wasActive     bool
		replacementID string
		err           error // delete itself failed
		replaceErr    error // delete succeeded, replacement did not
	}

	// clearedMsg delivers a clear-all plus the replacement session, with
	// the same split between the wipe and the provisioning outcome.
	clearedMsg struct {
		replacementID string
		err           error
		replaceErr    error
	}

	// voiceEventMsg wraps one recognizer event.
	voiceEventMsg voice.Event

	// voiceAutoSendMsg fires the delayed auto-submit of a transcript.
	// attempt must still match the model's counter or the send is stale.
	voiceAutoSendMsg struct {
		attempt int
	}

	// toastTickMsg drives toast expiry.
	toastTickMsg time.Time
)

// ConfigReloadedMsg is sent from outside the program when the config file
// changes on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}
