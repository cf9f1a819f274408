package domain

import "time"

// UserProfile identifies the cloud account owning the session. Nil in guest
// mode. Sourced from the external identity provider, never persisted by the
// core.
type UserProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// BackupSnapshot is the complete exportable application state.
type BackupSnapshot struct {
	Profile      *UserProfile       `json:"profile"`
	Transactions []Transaction      `json:"transactions"`
	Rates        *RateTable         `json:"rates"`
	Calculator   CalculatorSettings `json:"calculator"`
	Version      string             `json:"version"`
}

// BackupVersion tags exported snapshots for forward compatibility.
const BackupVersion = "1.0"
