package telemetry

import "io"

// MaxPayload bounds one radio frame; longer payloads are cut.
const MaxPayload = 244

// Frame truncates p to MaxPayload and terminates it with CRLF, the framing
// expected by transparent UART-to-BLE bridge modules.
func Frame(p []byte) []byte {
	if len(p) > MaxPayload {
		p = p[:MaxPayload]
	}
	out := make([]byte, 0, len(p)+2)
	out = append(out, p...)
	return append(out, '\r', '\n')
}

// StreamTransport writes framed payloads to a byte stream (a UART bridge on
// the board, stdout in the host simulation).
type StreamTransport struct {
	W io.Writer
}

func (s StreamTransport) Publish(payload []byte) error {
	_, err := s.W.Write(Frame(payload))
	return err
}
