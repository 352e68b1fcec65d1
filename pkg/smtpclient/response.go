package smtpclient

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// respTerminator matches the final line of a server response: three digits
// followed by a space. A hyphen after the digits marks a continuation line
// in a multi-line response and keeps the reader accumulating.
var respTerminator = regexp.MustCompile(`^\d{3} `)

const readChunkSize = 4096

// readResponse accumulates bytes across socket reads until a terminator
// line arrives. Both the per-read wait and the total number of reads are
// bounded so a stalled or babbling peer cannot hang the session.
func (c *Client) readResponse(ctx context.Context) (int, string, error) {
	var acc bytes.Buffer
	chunk := make([]byte, readChunkSize)

	for range c.cfg.MaxReads {
		select {
		case <-ctx.Done():
			return 0, "", fmt.Errorf("%w: %w", ErrConnect, ctx.Err())
		default:
		}

		if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout)); err != nil {
			return 0, "", fmt.Errorf("%w: set read deadline: %w", ErrConnect, err)
		}

		n, err := c.conn.Read(chunk)
		if n > 0 {
			acc.Write(chunk[:n])
			if code, text, ok := parseResponse(acc.String()); ok {
				return code, text, nil
			}
		}
		if err != nil {
			return 0, "", fmt.Errorf("%w: read response: %w", ErrConnect, err)
		}
	}

	return 0, "", fmt.Errorf("%w: no complete response after %d reads: %q", ErrProtocol, c.cfg.MaxReads, acc.String())
}

// parseResponse reports whether the accumulated data contains a complete
// response. It scans only newline-terminated lines; the reply code is taken
// from the terminator line and text carries the full response.
func parseResponse(data string) (int, string, bool) {
	rest := data
	for {
		line, remainder, ok := strings.Cut(rest, "\n")
		if !ok {
			return 0, "", false
		}
		rest = remainder

		line = strings.TrimRight(line, "\r")
		if respTerminator.MatchString(line) {
			code, err := strconv.Atoi(line[:3])
			if err != nil {
				return 0, "", false
			}
			return code, strings.TrimSpace(data), true
		}
	}
}
