package importer

import (
	"fmt"

	"github.com/matheus3301/waimport/internal/store"
	"github.com/matheus3301/waimport/internal/transcript"
)

// mapRow merges one classified message with the store defaults into a
// full messages-table row. pos is the message's position within its
// chat, which together with the chat id forms the opaque per-message
// key string.
func mapRow(m transcript.Message, id int64, jid string, chatID int64, pos int) *store.MessageRow {
	row := store.NewMessageRow()
	row.ID = id
	row.KeyRemoteJID = jid
	row.KeyID = fmt.Sprintf("keyId-%04d-%04d", chatID, pos)

	meta := m.Meta()
	row.Timestamp = meta.Timestamp
	row.ReceivedTimestamp = meta.Timestamp
	if meta.FromMe {
		row.KeyFromMe = 1
	}

	switch v := m.(type) {
	case *transcript.SystemMessage:
		row.Data = &v.Text
	case *transcript.CallMessage:
		// A missed-call marker carries no payload.
	case *transcript.MediaMessage:
		if v.Filename != "" {
			row.MediaName = &v.Filename
		}
		if v.Caption != "" {
			row.MediaCaption = &v.Caption
		}
		row.RawData = v.Payload
	case *transcript.TextMessage:
		row.Data = &v.Body
	}
	return row
}
