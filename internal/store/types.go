package store

// MessageRow is the full messages-table representation of one
// imported message. The source schema binds inserts positionally
// across dozens of columns; this struct keeps every column named and
// maps to column order only inside InsertMessage, so nothing else in
// the program handles positional rows.
//
// Nullable columns the importer never populates are pointers and stay
// nil. The non-pointer fields carry the importer's fixed defaults,
// set by NewMessageRow.
type MessageRow struct {
	ID             int64
	KeyRemoteJID   string
	KeyFromMe      int64
	KeyID          string
	Status         int64
	NeedsPush      int64
	Data           *string
	Timestamp      int64
	MediaURL       *string
	MediaMimeType  *string
	MediaWAType    int64
	MediaSize      int64
	MediaName      *string
	MediaCaption   *string
	MediaHash      *string
	MediaDuration  int64
	Origin         int64
	Latitude       float64
	Longitude      float64
	ThumbImage     *string
	RemoteResource string

	ReceivedTimestamp      int64
	SendTimestamp          int64
	ReceiptServerTimestamp int64
	ReceiptDeviceTimestamp int64
	ReadDeviceTimestamp    *int64
	PlayedDeviceTimestamp  *int64

	RawData              []byte
	RecipientCount       *int64
	ParticipantHash      *string
	Starred              *int64
	QuotedRowID          int64
	MentionedJIDs        *string
	MulticastID          *string
	EditVersion          int64
	MediaEncHash         *string
	PaymentTransactionID *string
	Forwarded            *int64
	PreviewType          *int64
	SendCount            *int64
	LookupTables         *int64
	FutureMessageType    *int64
}

// NewMessageRow returns a row carrying the defaults for every column
// the importer does not otherwise populate: status 0 (pending),
// origin 1 (locally originated), send/receipt timestamps -1, empty
// remote_resource, zeroed media and geolocation fields, and nil for
// everything optional.
func NewMessageRow() *MessageRow {
	return &MessageRow{
		Origin:                 1,
		SendTimestamp:          -1,
		ReceiptServerTimestamp: -1,
		ReceiptDeviceTimestamp: -1,
	}
}

// Run is one recorded importer invocation.
type Run struct {
	ID         string
	StartedAt  int64
	FinishedAt int64
	Chats      int64
	Messages   int64
	Sources    string
}

// Stats summarizes store contents for the stats command.
type Stats struct {
	Chats    int64 `json:"chats"`
	Messages int64 `json:"messages"`
	Runs     int64 `json:"runs"`
}
