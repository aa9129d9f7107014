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

// FIBRow is one neighbor-table row in a snapshot document.
type FIBRow struct {
	Label      int `json:"label"`
	HelloCount int `json:"hello_count"`
}

// PITRow is one pending-interest row in a snapshot document.
type PITRow struct {
	Name     string `json:"name"`
	RID      string `json:"rid"`
	Retry    int    `json:"retry"`
	Upstream int    `json:"upstream_label"`
}

// PacketCounters mirrors the in/out counter fields of the
// persisted-snapshot document (spec §6).
type PacketCounters struct {
	In  map[string]float64 `json:"in"`
	Out map[string]float64 `json:"out"`
}

// Snapshot is the in-memory document a node can produce on demand,
// shaped exactly like spec §6's persisted-snapshot: telemetry an
// external console/recorder would capture per tick. This node never
// writes it to disk -- persistence is an external collaborator (§1).
type Snapshot struct {
	Label         int                       `json:"label"`
	X             int                       `json:"x"`
	Y             int                       `json:"y"`
	Endpoint      string                    `json:"endpoint"`
	CommsEnabled  bool                      `json:"comms_enabled"`
	IsGateway     bool                      `json:"is_gateway"`
	GatewayPeer   string                    `json:"gateway_peer,omitempty"`
	Counters      PacketCounters            `json:"counters"`
	Recent        []forwardingRecentPacket  `json:"recent"`
	FIB           []FIBRow                  `json:"fib"`
	PIT           []PITRow                  `json:"pit"`
}

// forwardingRecentPacket mirrors forwarding.RecentPacket's shape for
// JSON rendering without importing it circularly into the engine's own
// tests.
type forwardingRecentPacket struct {
	At        string `json:"at"`
	Direction string `json:"direction"`
	Kind      string `json:"kind"`
	Plaintext string `json:"plaintext"`
	Encrypted string `json:"encrypted,omitempty"`
}

// Snapshot renders the node's current state into the persisted-snapshot
// document shape.
func (n *Node) Snapshot() Snapshot {
	in, out := n.Engine.Metrics.Snapshot()

	var fibRows []FIBRow
	for _, e := range n.Engine.FIB.Snapshot() {
		fibRows = append(fibRows, FIBRow{Label: e.Label, HelloCount: e.HelloCount})
	}

	var pitRows []PITRow
	for _, e := range n.Engine.PIT.Snapshot() {
		pitRows = append(pitRows, PITRow{Name: e.Key.Name, RID: e.Key.RID, Retry: e.Key.Retry, Upstream: e.Upstream})
	}

	var recent []forwardingRecentPacket
	for _, p := range n.Engine.Recent.Snapshot() {
		recent = append(recent, forwardingRecentPacket{
			At:        p.At.String(),
			Direction: p.Direction,
			Kind:      p.Kind,
			Plaintext: p.Plaintext,
			Encrypted: p.Encrypted,
		})
	}

	gatewayPeer := ""
	if n.cfg.GatewayPeer != nil {
		gatewayPeer = n.cfg.GatewayPeer.String()
	}

	return Snapshot{
		Label:        n.cfg.Label,
		X:            n.cfg.X,
		Y:            n.cfg.Y,
		Endpoint:     n.cfg.Endpoint.String(),
		CommsEnabled: n.server.CommsEnabled(),
		IsGateway:    n.cfg.IsGateway,
		GatewayPeer:  gatewayPeer,
		Counters:     PacketCounters{In: in, Out: out},
		Recent:       recent,
		FIB:          fibRows,
		PIT:          pitRows,
	}
}
