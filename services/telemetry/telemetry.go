// Package telemetry pushes the latest diagnostic and sample lines over the
// short-range radio on a fixed iteration cadence. Publish failures are
// reported to a log sink and never escalate.
package telemetry

// Transport delivers one payload to the radio.
type Transport interface {
	Publish(payload []byte) error
}

// Notifier decides when to publish and absorbs failures.
type Notifier struct {
	tr    Transport // nil when wireless init failed
	every int
	phase int
	log   func(msg string)

	sent, failed uint64
}

// New publishes on iterations where iter%every == phase.
func New(tr Transport, every, phase int, log func(msg string)) *Notifier {
	if every <= 0 {
		every = 1
	}
	return &Notifier{tr: tr, every: every, phase: phase % every, log: log}
}

// SetTransport attaches (or detaches, with nil) the radio transport.
func (n *Notifier) SetTransport(tr Transport) { n.tr = tr }

// Enabled reports whether a transport is attached.
func (n *Notifier) Enabled() bool { return n.tr != nil }

// Due reports whether iteration iter should publish.
func (n *Notifier) Due(iter uint64) bool {
	return n.tr != nil && iter%uint64(n.every) == uint64(n.phase)
}

// Payload joins the two lines as broadcast.
func Payload(logLine, dataLine string) []byte {
	b := make([]byte, 0, len(logLine)+1+len(dataLine))
	b = append(b, logLine...)
	b = append(b, '\n')
	return append(b, dataLine...)
}

// Publish sends the payload and reports success. Errors (and panics from the
// radio stack) are logged here.
func (n *Notifier) Publish(logLine, dataLine string) (ok bool) {
	if n.tr == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			n.failed++
			n.report("Bluetooth notification error: radio stack panic")
			ok = false
		}
	}()
	if err := n.tr.Publish(Payload(logLine, dataLine)); err != nil {
		n.failed++
		n.report("Bluetooth notification error: " + err.Error())
		return false
	}
	n.sent++
	return true
}

func (n *Notifier) report(msg string) {
	if n.log != nil {
		n.log(msg)
	}
}

// Stats returns publish counters.
func (n *Notifier) Stats() (sent, failed uint64) { return n.sent, n.failed }
