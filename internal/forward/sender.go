// Package forward ships decoded AIS messages as JSON datagrams.
package forward

import (
	"encoding/json"
	"fmt"
	"net"

	"aisrx/internal/receiver"
)

type Sender struct {
	dest string
	conn *net.UDPConn
}

func NewSender(dest string) (*Sender, error) {
	addr, err := net.ResolveUDPAddr("udp", dest)
	if err != nil {
		return nil, fmt.Errorf("resolve dest: %w", err)
	}

	// DialUDP selects a suitable local address automatically.
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dial udp: %w", err)
	}

	return &Sender{dest: dest, conn: conn}, nil
}

// Send marshals one message per datagram. Send errors are returned, not
// fatal; UDP consumers may come and go.
func (s *Sender) Send(msg receiver.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	_, err = s.conn.Write(b)
	return err
}

func (s *Sender) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
