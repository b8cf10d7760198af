package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func newSessionID() string {
	return "session_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func sessionIDOr(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return newSessionID()
	}
	return id
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
