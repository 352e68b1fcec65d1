package smtp

import "time"

// Config holds SMTP submission endpoint configuration. One session is
// opened per message: connect, authenticate, send, quit.
type Config struct {
	Host      string
	Username  string
	Password  string
	HelloName string
	Port      int

	// Optional I/O bounds passed through to the protocol client.
	DialTimeout time.Duration
	ReadTimeout time.Duration
}
