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

package node

// CommandKind tags the operator actions a running node accepts. The
// interactive console that produces these is an external collaborator
// (spec §1); Node only consumes the channel.
type CommandKind int

const (
	// CmdPause disables both send and receive (comms_enabled = false).
	CmdPause CommandKind = iota
	// CmdResume re-enables comms.
	CmdResume
	// CmdOriginate issues a local INTEREST for Name at Retry.
	CmdOriginate
)

// Command is one operator request, delivered over Node's bounded
// management channel and drained non-blockingly once per HELLO tick.
type Command struct {
	Kind  CommandKind
	Name  string
	Retry int
}

// commandQueueCapacity bounds the management channel so a stalled or
// absent console cannot block command producers indefinitely.
const commandQueueCapacity = 64

// Submit enqueues a command for the next tick to pick up. It never
// blocks: if the queue is full, the command is dropped (an unresponsive
// operator console is not this node's problem to solve).
func (n *Node) Submit(cmd Command) {
	select {
	case n.commands <- cmd:
	default:
	}
}

// drainCommands processes every command currently queued without
// blocking, per spec §5's "bounded queue read non-blockingly" rule.
func (n *Node) drainCommands() {
	for {
		select {
		case cmd := <-n.commands:
			n.apply(cmd)
		default:
			return
		}
	}
}

func (n *Node) apply(cmd Command) {
	switch cmd.Kind {
	case CmdPause:
		n.SetCommsEnabled(false)
	case CmdResume:
		n.SetCommsEnabled(true)
	case CmdOriginate:
		n.Engine.Originate(cmd.Name, cmd.Retry)
	}
}
