// Package verify establishes whether candidate email addresses are
// deliverable. With SMTP enabled the verdict comes from a direct handshake
// against the domain's best mail exchanger; otherwise the engine falls
// through third-party verification APIs to a DNS MX floor, so no address
// leaves unclassified.
package verify

import (
	"context"
	"errors"
	"net"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// MXResolver resolves a domain's mail exchangers. Injectable for tests.
type MXResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// Verifier classifies email addresses into the canonical status vocabulary.
type Verifier struct {
	smtpEnabled bool
	helloDomain string
	fromAddress string
	stepTimeout time.Duration
	batchSize   int
	batchPause  time.Duration

	resolver  MXResolver
	dialer    Dialer
	providers []Provider
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithResolver overrides the DNS resolver.
func WithResolver(r MXResolver) Option {
	return func(v *Verifier) { v.resolver = r }
}

// WithDialer overrides the SMTP dialer.
func WithDialer(d Dialer) Option {
	return func(v *Verifier) { v.dialer = d }
}

// WithProviders sets the API provider fallback chain.
func WithProviders(providers ...Provider) Option {
	return func(v *Verifier) { v.providers = providers }
}

// New creates a Verifier from config.
func New(cfg config.VerifyConfig, opts ...Option) *Verifier {
	v := &Verifier{
		smtpEnabled: cfg.SMTPEnabled,
		helloDomain: cfg.HelloDomain,
		fromAddress: cfg.FromAddress,
		stepTimeout: time.Duration(cfg.StepTimeoutSecs) * time.Second,
		batchSize:   cfg.BatchSize,
		batchPause:  time.Duration(cfg.BatchPauseMs) * time.Millisecond,
		resolver:    net.DefaultResolver,
		dialer:      defaultDialer,
	}
	if v.stepTimeout <= 0 {
		v.stepTimeout = 5 * time.Second
	}
	if v.batchSize <= 0 {
		v.batchSize = 3
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Verify classifies a single address. It never returns an error; every
// failure mode maps to a status so callers can treat the verdict uniformly.
func (v *Verifier) Verify(ctx context.Context, email string) model.VerificationResult {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return model.VerificationResult{Email: email, Status: model.EmailInvalid, Reason: "malformed address"}
	}
	domain := email[strings.LastIndex(email, "@")+1:]

	mxs, mxErr := v.resolver.LookupMX(ctx, domain)

	if v.smtpEnabled {
		if mxErr != nil || len(mxs) == 0 {
			return v.mxVerdict(email, mxs, mxErr)
		}
		// The handshake verdict is terminal. A timeout or refusal means
		// the server would not say; guessing past it would surface
		// addresses the mailbox host never confirmed.
		result := v.handshake(ctx, strings.TrimSuffix(mxs[0].Host, "."), email)
		if result.Status == model.EmailUnknown {
			zap.L().Debug("smtp handshake inconclusive",
				zap.String("email", email),
				zap.String("reason", result.Reason))
		}
		return result
	}

	for _, p := range v.providers {
		result, err := p.Verify(ctx, email)
		if err != nil {
			zap.L().Warn("verification provider failed",
				zap.String("provider", p.Name()),
				zap.String("email", email),
				zap.Error(err))
			continue
		}
		if result.Status.Decisive() {
			return result
		}
	}

	return v.mxVerdict(email, mxs, mxErr)
}

// mxVerdict is the DNS floor: a domain that accepts mail makes the address
// plausible even when nothing would confirm the mailbox.
func (v *Verifier) mxVerdict(email string, mxs []*net.MX, mxErr error) model.VerificationResult {
	switch {
	case mxErr == nil && len(mxs) > 0:
		return model.VerificationResult{Email: email, Status: model.EmailRisky, Reason: "domain valid, user unverified"}
	case mxErr == nil:
		return model.VerificationResult{Email: email, Status: model.EmailInvalid, Reason: "domain has no mail servers"}
	default:
		var dnsErr *net.DNSError
		if errors.As(mxErr, &dnsErr) && dnsErr.IsNotFound {
			return model.VerificationResult{Email: email, Status: model.EmailInvalid, Reason: "domain does not exist"}
		}
		return model.VerificationResult{Email: email, Status: model.EmailUnknown, Reason: "DNS lookup failed"}
	}
}

// VerifyBatch classifies addresses in bounded windows, pausing between
// windows so target servers and provider quotas are not hammered. Results
// come back in input order.
func (v *Verifier) VerifyBatch(ctx context.Context, emails []string) []model.VerificationResult {
	results := make([]model.VerificationResult, len(emails))

	for start := 0; start < len(emails); start += v.batchSize {
		end := start + v.batchSize
		if end > len(emails) {
			end = len(emails)
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = v.Verify(gctx, emails[i])
				return nil
			})
		}
		_ = g.Wait()

		if end < len(emails) && v.batchPause > 0 {
			select {
			case <-ctx.Done():
				for i := end; i < len(emails); i++ {
					results[i] = model.VerificationResult{
						Email:  emails[i],
						Status: model.EmailUnknown,
						Reason: "canceled",
					}
				}
				return results
			case <-time.After(v.batchPause):
			}
		}
	}

	return results
}
