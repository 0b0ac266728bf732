package host

import "fmt"

// Store prefixes of the packet commitments a counterparty proves to its light clients.
const (
	KeyPortPrefix             = "ports"
	KeyChannelPrefix          = "channels"
	KeySequencePrefix         = "sequences"
	KeyPacketCommitmentPrefix = "commitments"
	KeyPacketAckPrefix        = "acks"
	KeyPacketReceiptPrefix    = "receipts"
)

// PacketCommitmentKey returns the key of the commitment to the packet sent on the channel
// with sequence: "commitments/ports/{portID}/channels/{channelID}/sequences/{sequence}".
func PacketCommitmentKey(portID, channelID string, sequence uint64) []byte {
	return packetKey(KeyPacketCommitmentPrefix, portID, channelID, sequence)
}

// PacketAcknowledgementKey returns the key of the acknowledgement written for the packet
// received on the channel with sequence.
func PacketAcknowledgementKey(portID, channelID string, sequence uint64) []byte {
	return packetKey(KeyPacketAckPrefix, portID, channelID, sequence)
}

// PacketReceiptKey returns the key of the receipt of the packet received on an unordered
// channel with sequence. Timeouts are proven by its absence.
func PacketReceiptKey(portID, channelID string, sequence uint64) []byte {
	return packetKey(KeyPacketReceiptPrefix, portID, channelID, sequence)
}

func packetKey(prefix, portID, channelID string, sequence uint64) []byte {
	return []byte(fmt.Sprintf("%s/%s/%s/%s/%s/%s/%d", prefix, KeyPortPrefix, portID, KeyChannelPrefix, channelID, KeySequencePrefix, sequence))
}
