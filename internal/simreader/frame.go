package simreader

import (
	"fmt"

	"github.com/erazemk/rfidash/internal/tagdata"
)

// Frame bytes of the serial reader protocol.
const (
	frameHeader byte = 0xAA
	frameEnd    byte = 0xDD

	typeCommand      byte = 0x00
	typeNotification byte = 0x02

	cmdInventory byte = 0x22
	cmdWriteEPC  byte = 0x49

	membankEPC byte = 0x01
)

// ReadCommand polls the reader for tags in its field.
var ReadCommand = []byte{frameHeader, typeCommand, cmdInventory, 0x00, 0x00, 0x22, frameEnd}

func checksum(body []byte) byte {
	var sum byte
	for _, b := range body {
		sum += b
	}
	return sum
}

func frame(body []byte) []byte {
	out := make([]byte, 0, len(body)+3)
	out = append(out, frameHeader)
	out = append(out, body...)
	return append(out, checksum(body), frameEnd)
}

func padded(payload string) []byte {
	data := make([]byte, tagdata.MaxLength)
	copy(data, payload)
	return data
}

// WriteFrame returns the command writing payload to the EPC bank of the tag
// in the writer's field. The payload is zero-padded to 12 bytes.
func WriteFrame(payload string) ([]byte, error) {
	if err := tagdata.Validate(payload); err != nil {
		return nil, err
	}

	params := []byte{
		0x00, 0x00, 0x00, 0x00, // access password
		membankEPC,
		0x00, 0x02, // word pointer
		0x00, 0x06, // word count
	}
	params = append(params, padded(payload)...)

	body := []byte{typeCommand, cmdWriteEPC, byte(len(params) >> 8), byte(len(params))}
	return frame(append(body, params...)), nil
}

// NotificationFrame returns the inventory notification the reader emits when
// it sees a tag carrying epc.
func NotificationFrame(epc string) []byte {
	params := []byte{0xC8, 0x30, 0x00} // RSSI and protocol control word
	params = append(params, padded(epc)...)
	params = append(params, 0x00, 0x00) // CRC, unchecked

	body := []byte{typeNotification, cmdInventory, byte(len(params) >> 8), byte(len(params))}
	return frame(append(body, params...))
}

// ParseNotifications extracts the printable EPCs of every inventory
// notification in data. Other frames are skipped; a malformed frame ends
// parsing with an error alongside the EPCs read so far.
func ParseNotifications(data []byte) ([]string, error) {
	var epcs []string
	for i := 0; i < len(data); {
		if data[i] != frameHeader {
			i++
			continue
		}
		if i+5 > len(data) {
			return epcs, fmt.Errorf("truncated frame header at offset %d", i)
		}

		n := int(data[i+3])<<8 | int(data[i+4])
		end := i + 5 + n + 1
		if end >= len(data) || data[end] != frameEnd {
			return epcs, fmt.Errorf("malformed frame at offset %d", i)
		}
		body := data[i+1 : i+5+n]
		if checksum(body) != data[end-1] {
			return epcs, fmt.Errorf("bad checksum at offset %d", i)
		}

		// RSSI and PC precede the EPC; the CRC follows it.
		if data[i+1] == typeNotification && data[i+2] == cmdInventory && n > 5 {
			epc := make([]byte, 0, n-5)
			for _, b := range data[i+8 : i+5+n-2] {
				if b >= 0x20 && b <= 0x7e {
					epc = append(epc, b)
				}
			}
			if len(epc) > 0 {
				epcs = append(epcs, string(epc))
			}
		}
		i = end + 1
	}
	return epcs, nil
}
