// Package queue moves password reset mail through RabbitMQ: the API
// publishes events and a consumer delivers them with a mail.Sender.
package queue

// PasswordResetQueue is the durable queue carrying reset mail requests.
const PasswordResetQueue = "mail.password_reset"

// PasswordResetRequestedEvent is published when a user asks for a password
// reset link. It carries everything the mail consumer needs.
type PasswordResetRequestedEvent struct {
	To          string `json:"to"`
	Link        string `json:"link"`
	RequestedAt string `json:"requested_at"`
}
