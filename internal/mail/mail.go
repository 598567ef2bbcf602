// Package mail delivers transactional email.
package mail

import (
	"context"
	"fmt"
)

// Message is a single HTML email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// FromAddress formats a sender as `"App" <addr>`.
func FromAddress(appName, addr string) string {
	if appName == "" {
		return addr
	}
	return fmt.Sprintf("%q <%s>", appName, addr)
}

// ResetPasswordMessage builds the password reset mail for to.
func ResetPasswordMessage(from, to, link string) Message {
	return Message{
		From:    from,
		To:      []string{to},
		Subject: "Password Reset Request",
		HTML:    `Click <a href="` + link + `">here</a> to reset your password.`,
	}
}
