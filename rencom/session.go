package rencom

import "github.com/google/uuid"

// NewSessionID generates a session identifier for correlating searches
// and clicks in analytics. Pass it as SessionID on search params, then
// reuse it for the LogClick that follows.
func NewSessionID() string {
	return "sess_" + uuid.NewString()
}
