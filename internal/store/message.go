package store

import (
	"database/sql"
	"fmt"
)

// InsertMessage persists one mapped row inside tx. This is the single
// place the named struct meets column order.
func InsertMessage(tx *sql.Tx, m *MessageRow) error {
	_, err := tx.Exec(`
		INSERT INTO messages (
			_id, key_remote_jid, key_from_me, key_id,
			status, needs_push, data, timestamp,
			media_url, media_mime_type, media_wa_type, media_size,
			media_name, media_caption, media_hash, media_duration,
			origin, latitude, longitude, thumb_image, remote_resource,
			received_timestamp, send_timestamp,
			receipt_server_timestamp, receipt_device_timestamp,
			read_device_timestamp, played_device_timestamp,
			raw_data, recipient_count, participant_hash, starred,
			quoted_row_id, mentioned_jids, multicast_id, edit_version,
			media_enc_hash, payment_transaction_id, forwarded,
			preview_type, send_count, lookup_tables, future_message_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.KeyRemoteJID, m.KeyFromMe, m.KeyID,
		m.Status, m.NeedsPush, m.Data, m.Timestamp,
		m.MediaURL, m.MediaMimeType, m.MediaWAType, m.MediaSize,
		m.MediaName, m.MediaCaption, m.MediaHash, m.MediaDuration,
		m.Origin, m.Latitude, m.Longitude, m.ThumbImage, m.RemoteResource,
		m.ReceivedTimestamp, m.SendTimestamp,
		m.ReceiptServerTimestamp, m.ReceiptDeviceTimestamp,
		m.ReadDeviceTimestamp, m.PlayedDeviceTimestamp,
		m.RawData, m.RecipientCount, m.ParticipantHash, m.Starred,
		m.QuotedRowID, m.MentionedJIDs, m.MulticastID, m.EditVersion,
		m.MediaEncHash, m.PaymentTransactionID, m.Forwarded,
		m.PreviewType, m.SendCount, m.LookupTables, m.FutureMessageType)
	if err != nil {
		return fmt.Errorf("insert message %d: %w", m.ID, err)
	}
	return nil
}

// MessageCount returns the total number of stored messages.
func (db *DB) MessageCount() (int64, error) {
	var count int64
	err := db.QueryRow(`SELECT COUNT(*) FROM legacy_available_messages_view`).Scan(&count)
	return count, err
}
