package transcript

// Meta holds the fields shared by every message variant.
type Meta struct {
	Timestamp int64 // epoch milliseconds
	FromMe    bool
	Lines     int // raw line count of the source entry
}

// Message is a classified transcript entry. It is a closed union:
// the only implementations are SystemMessage, CallMessage,
// MediaMessage and TextMessage. Callers type-switch over the
// variants; the compiler keeps the set closed via the unexported
// marker method.
type Message interface {
	Meta() *Meta
	message()
}

// SystemMessage is an informational notice with no sender, e.g. a
// security-code change.
type SystemMessage struct {
	Info Meta
	Text string
}

// CallMessage marks a missed call. It carries no payload beyond the
// sender.
type CallMessage struct {
	Info   Meta
	Sender string
}

// MediaMessage is an attachment reference. Payload holds the
// hex-encoded file bytes and is empty when the file was omitted from
// the export.
type MediaMessage struct {
	Info     Meta
	Sender   string
	Filename string
	Caption  string
	Payload  []byte
}

// TextMessage is an ordinary message. Body keeps embedded newlines
// from joined continuation lines.
type TextMessage struct {
	Info   Meta
	Sender string
	Body   string
}

func (m *SystemMessage) Meta() *Meta { return &m.Info }
func (m *CallMessage) Meta() *Meta   { return &m.Info }
func (m *MediaMessage) Meta() *Meta  { return &m.Info }
func (m *TextMessage) Meta() *Meta   { return &m.Info }

func (*SystemMessage) message() {}
func (*CallMessage) message()   {}
func (*MediaMessage) message()  {}
func (*TextMessage) message()   {}

// SenderName returns the display name of the sending participant, or
// "" for system notices.
func SenderName(m Message) string {
	switch v := m.(type) {
	case *CallMessage:
		return v.Sender
	case *MediaMessage:
		return v.Sender
	case *TextMessage:
		return v.Sender
	default:
		return ""
	}
}
