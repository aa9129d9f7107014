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

package transport

import (
	"errors"
	"net"
	"sync/atomic"
	"time"
)

// dialTimeout bounds how long an outbound connect may block; a
// unreachable peer must not stall the engine indefinitely.
const dialTimeout = 2 * time.Second

// ErrCommsDisabled is returned by Send while an operator has paused a
// node -- outbound sends are no-ops per §4.11.
var ErrCommsDisabled = errors.New("transport: comms disabled")

// Client sends one message per TCP connection: dial, write, close.
// It satisfies forwarding.Sender.
type Client struct {
	enabled atomic.Bool
}

// NewClient creates a Client with comms enabled.
func NewClient() *Client {
	c := &Client{}
	c.enabled.Store(true)
	return c
}

// SetCommsEnabled gates outbound sends.
func (c *Client) SetCommsEnabled(on bool) { c.enabled.Store(on) }

// Send dials host:port, writes frame, and closes the connection.
// Connect and send failures are returned to the caller (the forwarding
// engine treats any error as "swallow silently, skip the counter
// bump") rather than logged here -- a single unreachable peer is
// routine, not exceptional.
func (c *Client) Send(host string, port int, frame string) error {
	if !c.enabled.Load() {
		return ErrCommsDisabled
	}
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, itoa(port)), dialTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Write([]byte(frame))
	return err
}
