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

package forwarding

import (
	"crypto/rsa"

	"github.com/bfix/gospel/logger"

	"github.com/Anupal/distributed-ndn/message"
	"github.com/Anupal/distributed-ndn/pit"
	"github.com/Anupal/distributed-ndn/util"
)

// Bridge is the gateway control channel between two designated nodes:
// it tunnels interests for names under Prefix across two otherwise
// disjoint meshes over a dedicated, gateway-keyed channel.
type Bridge struct {
	Prefix   string
	priv     *rsa.PrivateKey
	pub      *rsa.PublicKey
	peerHost string
	peerPort int

	gpit    *pit.GPIT
	engine  *Engine
	sender  Sender
	pending *util.Map[OriginatorKey, struct{}]
}

// NewBridge wires a gateway bridge to its owning engine. priv/pub are
// the gateway-only keypair (distinct from the node's own identity
// keypair); peerHost/peerPort address the paired gateway node.
func NewBridge(engine *Engine, sender Sender, priv *rsa.PrivateKey, pub *rsa.PublicKey, peerHost string, peerPort int, prefix string) *Bridge {
	return &Bridge{
		Prefix:   prefix,
		priv:     priv,
		pub:      pub,
		peerHost: peerHost,
		peerPort: peerPort,
		gpit:     pit.NewGPIT(),
		engine:   engine,
		sender:   sender,
		pending:  util.NewMap[OriginatorKey, struct{}](),
	}
}

// SendEG tunnels an EG frame for name to the peer gateway.
func (b *Bridge) SendEG(name string) {
	frame, err := message.EncodeEG(b.pub, name)
	if err != nil {
		return
	}
	if err := b.sender.Send(b.peerHost, b.peerPort, frame); err != nil {
		logger.Printf(logger.DBG, "[gateway] EG send failed: %v\n", err)
	}
}

// SendEGReply tunnels an EG_REPLY frame for (name, payload) to the peer
// gateway.
func (b *Bridge) SendEGReply(name, payload string) {
	frame, err := message.EncodeEGReply(b.pub, name, payload)
	if err != nil {
		return
	}
	if err := b.sender.Send(b.peerHost, b.peerPort, frame); err != nil {
		logger.Printf(logger.DBG, "[gateway] EG_REPLY send failed: %v\n", err)
	}
}

// HandleEG decodes an inbound EG frame and originates the tunneled name
// into this gateway's local mesh, recording the origination as pending
// so the resulting DATA is routed back across the bridge instead of
// surfaced to a local operator.
func (b *Bridge) HandleEG(raw string) {
	name, ok := message.DecodeEG(raw, b.priv)
	if !ok {
		return
	}
	rid := b.engine.Originate(name, 0)
	b.pending.Put(OriginatorKey{Name: name, RID: rid}, struct{}{}, 0)
}

// HandleEGReply decodes an inbound EG_REPLY frame and emits the DATA to
// the original downstream requester recorded in GPIT.
func (b *Bridge) HandleEGReply(raw string) {
	name, payload, ok := message.DecodeEGReply(raw, b.priv)
	if !ok {
		return
	}
	entry, ok := b.gpit.Take(name)
	if !ok {
		return
	}
	b.engine.sendData(entry.Upstream, name, entry.RID, entry.Retry, payload, KindDataFwd)
}

// TakePending reports and consumes whether key is an origination this
// bridge made on behalf of a remote EG request.
func (b *Bridge) TakePending(key OriginatorKey) bool {
	if _, ok := b.pending.Get(key, 0); !ok {
		return false
	}
	b.pending.Delete(key, 0)
	return true
}

// Reply sends an EG_REPLY for a DATA this gateway originated on behalf
// of a remote peer.
func (b *Bridge) Reply(name, payload string) {
	b.SendEGReply(name, payload)
}
