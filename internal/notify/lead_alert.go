package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/settlo/backend/internal/leads"
	"github.com/settlo/backend/internal/observability/metrics"
	"github.com/settlo/backend/pkg/logging"
)

var tracer = otel.Tracer("settlo.internal.notify")

const defaultTimeout = 10 * time.Second

// LeadNotifier emails operators about new leads. Dispatch never blocks and
// never reports failure to the caller; the lead is already durable by the
// time a notification is attempted.
type LeadNotifier struct {
	sender    EmailSender
	recipient string
	timeout   time.Duration
	metrics   *metrics.LeadMetrics
	logger    *logging.Logger

	wg sync.WaitGroup
}

// NewLeadNotifier creates a notifier delivering to recipient. sender may be
// nil, in which case dispatches are logged and dropped.
func NewLeadNotifier(sender EmailSender, recipient string, timeout time.Duration, m *metrics.LeadMetrics, logger *logging.Logger) *LeadNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LeadNotifier{
		sender:    sender,
		recipient: recipient,
		timeout:   timeout,
		metrics:   m,
		logger:    logger,
	}
}

// Dispatch sends the new-lead alert on a detached goroutine and returns
// immediately. Failures are logged and counted, nothing more.
func (n *LeadNotifier) Dispatch(lead *leads.Lead) {
	if n.sender == nil || n.recipient == "" {
		n.logger.Debug("lead notifications disabled, skipping", "lead_id", lead.ID)
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		// Detached from the request context: the HTTP response must not
		// wait on, or fail because of, this send.
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		ctx, span := tracer.Start(ctx, "notify.lead_alert", trace.WithSpanKind(trace.SpanKindProducer))
		defer span.End()

		if err := n.sender.Send(ctx, EmailMessage{
			To:      n.recipient,
			Subject: fmt.Sprintf("New lead: %s (%s)", lead.Name, lead.Source),
			Body:    leadAlertBody(lead),
		}); err != nil {
			n.logger.Error("lead notification failed", "error", err, "lead_id", lead.ID)
			n.metrics.ObserveNotification("failed")
			return
		}
		n.metrics.ObserveNotification("sent")
	}()
}

// Drain blocks until every in-flight dispatch has finished. Called during
// graceful shutdown.
func (n *LeadNotifier) Drain() {
	n.wg.Wait()
}

func leadAlertBody(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new lead came in through the %s form.\n\n", lead.Source)
	fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	if lead.Company != nil {
		fmt.Fprintf(&b, "Company: %s\n", *lead.Company)
	}
	if lead.Demo != nil {
		fmt.Fprintf(&b, "Demo: %s\n", *lead.Demo)
	}
	if lead.Message != nil {
		fmt.Fprintf(&b, "\nMessage:\n%s\n", *lead.Message)
	}
	fmt.Fprintf(&b, "\nReceived: %s\n", lead.CreatedAt.Format("January 2, 2006 at 3:04 PM MST"))
	return b.String()
}

var _ leads.Notifier = (*LeadNotifier)(nil)
