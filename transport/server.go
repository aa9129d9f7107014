// This file is part of gnunet-go, a GNUnet-implementation in Golang.
// Copyright (C) 2019, 2020 Bernd Fix  >Y<
//
// gnunet-go is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnunet-go is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

// Package transport implements the node's TCP plumbing: a blocking
// accept-loop listener that hands each connection to the forwarding
// engine, and a fire-and-forget client that opens one connection per
// outbound frame.
package transport

import (
	"io"
	"net"
	"sync/atomic"

	"github.com/bfix/gospel/logger"
)

// readBufSize is the fixed per-connection read buffer. 4096 bytes
// comfortably holds a bracket frame with an RSA-2048 OAEP body and a
// base64-encoded PSS signature or two.
const readBufSize = 4096

// Dispatcher receives one decoded-or-sniffed raw frame per connection.
// forwarding.Engine.Dispatch satisfies this.
type Dispatcher interface {
	Dispatch(raw string)
}

// Server is a blocking TCP listener for one node endpoint.
type Server struct {
	listener net.Listener
	dispatch Dispatcher
	enabled  atomic.Bool
}

// NewServer binds host:port and returns a Server ready to Run. Comms
// start enabled.
func NewServer(host string, port int, dispatch Dispatcher) (*Server, error) {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, itoa(port)))
	if err != nil {
		return nil, err
	}
	s := &Server{listener: ln, dispatch: dispatch}
	s.enabled.Store(true)
	return s, nil
}

// SetCommsEnabled gates the receive side: while disabled, incoming
// connections are accepted and immediately closed (per §4.11, an
// operator-paused node still answers TCP but drops everything). The
// send side is gated separately by Client.SetCommsEnabled.
func (s *Server) SetCommsEnabled(on bool) { s.enabled.Store(on) }

// CommsEnabled reports the current gate state.
func (s *Server) CommsEnabled() bool { return s.enabled.Load() }

// Run blocks, accepting connections and spawning one handler goroutine
// per connection, until the listener is closed.
func (s *Server) Run() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return err
		}
		go s.handle(conn)
	}
}

// Close stops the listener, causing Run to return.
func (s *Server) Close() error {
	return s.listener.Close()
}

// handle reads one frame from conn and dispatches it. A panic anywhere
// in decode/dispatch must not take down the accept loop, so it is
// recovered and logged here rather than left to propagate.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			logger.Printf(logger.ERROR, "[transport] handler panic recovered: %v\n", r)
		}
	}()

	if !s.enabled.Load() {
		return
	}

	buf := make([]byte, readBufSize)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return
	}
	if n == 0 {
		return
	}
	s.dispatch.Dispatch(string(buf[:n]))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
