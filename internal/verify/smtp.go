package verify

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"strings"
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Dialer opens the TCP connection to a mail server. Injectable so tests
// can point the handshake at a scripted local listener.
type Dialer func(ctx context.Context, network, addr string) (net.Conn, error)

func defaultDialer(ctx context.Context, network, addr string) (net.Conn, error) {
	d := net.Dialer{}
	return d.DialContext(ctx, network, addr)
}

// handshake drives an SMTP session far enough to learn whether the server
// accepts mail for the address, then quits before any message is sent:
//
//	greeting -> HELO -> MAIL FROM -> RCPT TO -> QUIT
//
// The RCPT reply is the verdict. 2xx means the mailbox exists, 550 means it
// does not, and any other terminal reply means the server would not say
// (greylisting, policy rejections, catch-all refusals). Timeouts, socket
// errors, and refusals before RCPT are inconclusive.
func (v *Verifier) handshake(ctx context.Context, mxHost, email string) model.VerificationResult {
	conn, err := v.dialer(ctx, "tcp", net.JoinHostPort(mxHost, "25"))
	if err != nil {
		return inconclusive(email, err)
	}
	defer func() { _ = conn.Close() }()

	tc := textproto.NewConn(conn)

	step := func(cmd string, format string, args ...any) (int, string, error) {
		if err := conn.SetDeadline(time.Now().Add(v.stepTimeout)); err != nil {
			return 0, "", err
		}
		if cmd != "" {
			id, err := tc.Cmd(format, args...)
			if err != nil {
				return 0, "", err
			}
			tc.StartResponse(id)
			defer tc.EndResponse(id)
		}
		return tc.ReadResponse(-1)
	}

	// Server greeting.
	if code, _, err := step("", ""); err != nil {
		return inconclusive(email, err)
	} else if code != 220 {
		return model.VerificationResult{Email: email, Status: model.EmailUnknown, Reason: "server refused session"}
	}

	if code, _, err := step("HELO", "HELO %s", v.helloDomain); err != nil {
		return inconclusive(email, err)
	} else if code != 250 {
		return model.VerificationResult{Email: email, Status: model.EmailUnknown, Reason: "HELO rejected"}
	}

	if code, _, err := step("MAIL", "MAIL FROM:<%s>", v.fromAddress); err != nil {
		return inconclusive(email, err)
	} else if code != 250 {
		return model.VerificationResult{Email: email, Status: model.EmailUnknown, Reason: "MAIL FROM rejected"}
	}

	code, _, err := step("RCPT", "RCPT TO:<%s>", email)
	if err != nil {
		// Malformed multiline replies can still surface as *textproto.Error
		// carrying the reply code; anything else is a transport failure.
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) {
			code = tpErr.Code
		} else {
			return inconclusive(email, err)
		}
	}

	// Best effort; the verdict is already in hand.
	_, _, _ = step("QUIT", "QUIT")

	switch {
	case code >= 200 && code < 300:
		return model.VerificationResult{Email: email, Status: model.EmailValid, Reason: "SMTP Handshake Verified"}
	case code == 550:
		return model.VerificationResult{Email: email, Status: model.EmailInvalid, Reason: "mailbox does not exist"}
	default:
		return model.VerificationResult{Email: email, Status: model.EmailRisky, Reason: "server gave ambiguous RCPT reply"}
	}
}

func inconclusive(email string, err error) model.VerificationResult {
	reason := "connection failed"
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		reason = "server timed out"
	} else if err != nil && strings.Contains(err.Error(), "deadline") {
		reason = "server timed out"
	}
	return model.VerificationResult{Email: email, Status: model.EmailUnknown, Reason: reason}
}
