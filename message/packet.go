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

// Package message implements the bracket-delimited wire codec: HELLO,
// HELLO_ACK, INTEREST and DATA frames plus the gateway EG/EG_REPLY
// control frames.
package message

import (
	"crypto/rsa"
	"errors"
	"strconv"
	"strings"
)

// Kind is the numeric packet-kind tag carried as the first bracketed
// field of every non-gateway frame.
type Kind int

const (
	KindHello    Kind = 0
	KindData     Kind = 1
	KindInterest Kind = 2
	KindHelloAck Kind = 4
)

// Packet is the tagged-union type every decoded frame satisfies, per
// the Design Notes recommendation to replace callback-list dispatch
// with a single tagged type and dispatch switch.
type Packet interface {
	Kind() Kind
}

// Hello carries peer identity, transport endpoint, and both the
// per-peer and group signatures. HelloAck reuses this same shape.
type Hello struct {
	IsAck     bool
	Label     int
	Host      string
	Port      int
	Cert      []byte
	PeerPub   *rsa.PublicKey
	PeerSig   string
	MemberSig string
}

func (h *Hello) Kind() Kind {
	if h.IsAck {
		return KindHelloAck
	}
	return KindHello
}

// Interest is a decrypted consumer request for a named resource.
type Interest struct {
	Label     int
	Name      string
	RequestID string
	Retry     int
}

func (*Interest) Kind() Kind { return KindInterest }

// Data is a decrypted producer response carrying a payload.
type Data struct {
	Label     int
	Name      string
	RequestID string
	Retry     int
	Payload   string
}

func (*Data) Kind() Kind { return KindData }

var (
	// ErrMalformed is returned for any bracket-framing structural error.
	ErrMalformed = errors.New("message: malformed frame")
	// ErrBadSignature is returned when a HELLO's peer or member
	// signature fails verification.
	ErrBadSignature = errors.New("message: signature verification failed")
)

// wrap brackets a single field.
func wrap(s string) string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(s)
	b.WriteByte(']')
	return b.String()
}

// splitFields parses a sequence of bracketed fields. Fields themselves
// must never contain '[' or ']' -- callers are responsible for using
// field encodings (base64, decimal integers, restricted alphanumeric)
// that satisfy this, per the Design Notes framing-ambiguity note.
func splitFields(raw string) ([]string, error) {
	var fields []string
	i := 0
	for i < len(raw) {
		if raw[i] != '[' {
			return nil, ErrMalformed
		}
		end := strings.IndexByte(raw[i:], ']')
		if end < 0 {
			return nil, ErrMalformed
		}
		fields = append(fields, raw[i+1:i+end])
		i += end + 1
	}
	return fields, nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
