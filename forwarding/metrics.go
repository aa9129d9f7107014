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
	"strconv"

	dto "github.com/prometheus/client_model/go"

	"github.com/prometheus/client_golang/prometheus"
)

// Packet-counter kind labels, matching the persisted-snapshot document's
// in/out field names (spec §6).
const (
	KindHello       = "hello"
	KindHelloAck    = "hello_ack"
	KindInterest    = "interest"
	KindData        = "data"
	KindInterestOrg = "interest_org"
	KindInterestFwd = "interest_fwd"
	KindDataOrg     = "data_org"
	KindDataFwd     = "data_fwd"
)

// Metrics holds the packet counters named in the persisted-snapshot
// document: inbound hello/hello_ack/interest/data, and outbound
// hello/hello_ack/interest_org/interest_fwd/data_org/data_fwd. Each node
// gets its own isolated registry so running several nodes in one
// process (as the test suite does) never collides metric names.
type Metrics struct {
	Registry *prometheus.Registry

	In  *prometheus.CounterVec
	Out *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance scoped to one node label.
func NewMetrics(label int) *Metrics {
	reg := prometheus.NewRegistry()
	nodeLabel := strconv.Itoa(label)
	m := &Metrics{
		Registry: reg,
		In: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ndn_packets_in_total",
			Help:        "Inbound packets observed by kind.",
			ConstLabels: prometheus.Labels{"node": nodeLabel},
		}, []string{"kind"}),
		Out: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ndn_packets_out_total",
			Help:        "Outbound packets sent by kind.",
			ConstLabels: prometheus.Labels{"node": nodeLabel},
		}, []string{"kind"}),
	}
	reg.MustRegister(m.In, m.Out)
	return m
}

// BumpIn increments the inbound counter for kind.
func (m *Metrics) BumpIn(kind string) { m.In.WithLabelValues(kind).Inc() }

// BumpOut increments the outbound counter for kind.
func (m *Metrics) BumpOut(kind string) { m.Out.WithLabelValues(kind).Inc() }

// Snapshot returns the current counter values keyed by kind, split by
// direction -- used to populate node.Snapshot's packet-counter fields.
func (m *Metrics) Snapshot() (in, out map[string]float64) {
	return gatherByKind(m.In), gatherByKind(m.Out)
}

func gatherByKind(cv *prometheus.CounterVec) map[string]float64 {
	out := make(map[string]float64)
	for _, kind := range []string{
		KindHello, KindHelloAck, KindInterest, KindData,
		KindInterestOrg, KindInterestFwd, KindDataOrg, KindDataFwd,
	} {
		var pb dto.Metric
		if err := cv.WithLabelValues(kind).Write(&pb); err == nil {
			out[kind] = pb.GetCounter().GetValue()
		}
	}
	return out
}
