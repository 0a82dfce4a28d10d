package link

import (
	"bytes"
	"context"
	"fmt"
	"net"
)

// DefaultWakeAddr is the limited broadcast address on the discard port
const DefaultWakeAddr = "255.255.255.255:9"

// MagicPacket builds a Wake-on-LAN frame: six 0xFF bytes followed by the
// hardware address repeated sixteen times.
func MagicPacket(mac string) ([]byte, error) {
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return nil, fmt.Errorf("invalid mac address %q: %w", mac, err)
	}
	if len(hw) != 6 {
		return nil, fmt.Errorf("invalid mac address %q: expected 6 bytes", mac)
	}

	var buf bytes.Buffer
	buf.Grow(6 + 16*len(hw))
	buf.Write(bytes.Repeat([]byte{0xFF}, 6))
	for i := 0; i < 16; i++ {
		buf.Write(hw)
	}
	return buf.Bytes(), nil
}

// Waker sends Wake-on-LAN packets to a single TV
type Waker struct {
	mac  string
	addr string
}

// NewWaker creates a Waker for mac. An empty addr uses DefaultWakeAddr.
func NewWaker(mac, addr string) *Waker {
	if addr == "" {
		addr = DefaultWakeAddr
	}
	return &Waker{mac: mac, addr: addr}
}

// Wake broadcasts one magic packet
func (w *Waker) Wake(ctx context.Context) error {
	packet, err := MagicPacket(w.mac)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", w.addr)
	if err != nil {
		return fmt.Errorf("failed to open wake socket: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write(packet); err != nil {
		return fmt.Errorf("failed to send wake packet: %w", err)
	}
	return nil
}
