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

package message

import (
	"crypto/rsa"
	"strings"

	"github.com/Anupal/distributed-ndn/crypto"
)

const (
	egPrefix      = "EG"
	egFramePrefix = "EG|"
	egReplyPrefix = "EG_REPLY|"
)

// IsGatewayFrame reports whether raw begins with the literal "EG"
// prefix the forwarding engine's Dispatch sniffs before attempting
// normal bracket-frame decoding.
func IsGatewayFrame(raw []byte) bool {
	return len(raw) >= len(egPrefix) && string(raw[:len(egPrefix)]) == egPrefix
}

// EncodeEG builds an EG control frame: the plaintext "EG|" prefix
// followed by a gateway-public-key-encrypted data-name.
func EncodeEG(gwPub *rsa.PublicKey, name string) (string, error) {
	enc, err := crypto.Encrypt(gwPub, []byte(name))
	if err != nil {
		return "", err
	}
	return egFramePrefix + enc, nil
}

// DecodeEG reverses EncodeEG.
func DecodeEG(raw string, gwPriv *rsa.PrivateKey) (name string, ok bool) {
	if !strings.HasPrefix(raw, egFramePrefix) {
		return "", false
	}
	pt, ok := crypto.Decrypt(gwPriv, strings.TrimPrefix(raw, egFramePrefix))
	if !ok {
		return "", false
	}
	return string(pt), true
}

// EncodeEGReply builds an EG_REPLY control frame: the plaintext
// "EG_REPLY|" prefix followed by a gateway-public-key-encrypted
// "name|payload" body.
func EncodeEGReply(gwPub *rsa.PublicKey, name, payload string) (string, error) {
	body := name + "|" + payload
	enc, err := crypto.Encrypt(gwPub, []byte(body))
	if err != nil {
		return "", err
	}
	return egReplyPrefix + enc, nil
}

// DecodeEGReply reverses EncodeEGReply.
func DecodeEGReply(raw string, gwPriv *rsa.PrivateKey) (name, payload string, ok bool) {
	if !strings.HasPrefix(raw, egReplyPrefix) {
		return "", "", false
	}
	pt, ok := crypto.Decrypt(gwPriv, strings.TrimPrefix(raw, egReplyPrefix))
	if !ok {
		return "", "", false
	}
	parts := strings.SplitN(string(pt), "|", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
