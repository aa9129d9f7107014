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
	"encoding/base64"
	"strconv"

	"github.com/Anupal/distributed-ndn/crypto"
)

// EncodeHello builds a HELLO or HELLO_ACK frame. The signed message for
// both peer-signature and member-signature is the exact concatenation
// [label][host][port][cert] (base64 cert), per the wire contract.
func EncodeHello(kind Kind, label int, host string, port int, cert []byte,
	peerPriv *rsa.PrivateKey, peerPub *rsa.PublicKey, memberPriv *rsa.PrivateKey) (string, error) {

	certB64 := base64.StdEncoding.EncodeToString(cert)
	signedMsg := wrap(strconv.Itoa(label)) + wrap(host) + wrap(strconv.Itoa(port)) + wrap(certB64)

	peerSig, err := crypto.Sign(peerPriv, []byte(signedMsg))
	if err != nil {
		return "", err
	}
	memberSig, err := crypto.Sign(memberPriv, []byte(signedMsg))
	if err != nil {
		return "", err
	}
	pubB64, err := crypto.PublicKeyB64(peerPub)
	if err != nil {
		return "", err
	}

	return wrap(strconv.Itoa(int(kind))) + signedMsg + wrap(pubB64) + wrap(peerSig) + wrap(memberSig), nil
}

// DecodeHello parses a HELLO/HELLO_ACK frame's fields (kind already
// stripped by the caller's dispatch) and verifies both signatures. A
// HELLO whose member-signature fails verification is rejected outright
// -- the source's discarded-boolean bug is not reproduced here.
func DecodeHello(kind Kind, fields []string, membershipPub *rsa.PublicKey) (*Hello, error) {
	if len(fields) != 7 {
		return nil, ErrMalformed
	}
	label, err := parseInt(fields[0])
	if err != nil {
		return nil, ErrMalformed
	}
	host := fields[1]
	port, err := parseInt(fields[2])
	if err != nil {
		return nil, ErrMalformed
	}
	certB64 := fields[3]
	pubB64 := fields[4]
	peerSig := fields[5]
	memberSig := fields[6]

	cert, err := base64.StdEncoding.DecodeString(certB64)
	if err != nil {
		return nil, ErrMalformed
	}
	peerPub, err := crypto.ParsePublicKeyB64(pubB64)
	if err != nil {
		return nil, ErrMalformed
	}

	signedMsg := wrap(fields[0]) + wrap(host) + wrap(fields[2]) + wrap(certB64)
	if !crypto.Verify(peerPub, []byte(signedMsg), peerSig) {
		return nil, ErrBadSignature
	}
	if !crypto.Verify(membershipPub, []byte(signedMsg), memberSig) {
		return nil, ErrBadSignature
	}

	return &Hello{
		IsAck:     kind == KindHelloAck,
		Label:     label,
		Host:      host,
		Port:      port,
		Cert:      cert,
		PeerPub:   peerPub,
		PeerSig:   peerSig,
		MemberSig: memberSig,
	}, nil
}

// EncodeInterest builds an INTEREST frame, encrypting the
// [name][request-id][retry-index] body under the recipient's public key.
func EncodeInterest(label int, name, requestID string, retry int, recvPub *rsa.PublicKey) (string, error) {
	body := wrap(name) + wrap(requestID) + wrap(strconv.Itoa(retry))
	enc, err := crypto.Encrypt(recvPub, []byte(body))
	if err != nil {
		return "", err
	}
	return wrap(strconv.Itoa(int(KindInterest))) + wrap(strconv.Itoa(label)) + wrap(enc), nil
}

// DecodeInterest decrypts an INTEREST body with the receiver's private
// key. On any decryption or structural failure it returns ok=false so
// the frame can be dropped silently, never as an exception.
func DecodeInterest(fields []string, priv *rsa.PrivateKey) (*Interest, bool) {
	if len(fields) != 2 {
		return nil, false
	}
	label, err := parseInt(fields[0])
	if err != nil {
		return nil, false
	}
	pt, ok := crypto.Decrypt(priv, fields[1])
	if !ok {
		return nil, false
	}
	bodyFields, err := splitFields(string(pt))
	if err != nil || len(bodyFields) != 3 {
		return nil, false
	}
	retry, err := parseInt(bodyFields[2])
	if err != nil {
		return nil, false
	}
	return &Interest{
		Label:     label,
		Name:      bodyFields[0],
		RequestID: bodyFields[1],
		Retry:     retry,
	}, true
}

// EncodeData builds a DATA frame, encrypting the
// [name][request-id][retry-index][payload] body under the recipient's
// public key.
func EncodeData(label int, name, requestID string, retry int, payload string, recvPub *rsa.PublicKey) (string, error) {
	body := wrap(name) + wrap(requestID) + wrap(strconv.Itoa(retry)) + wrap(payload)
	enc, err := crypto.Encrypt(recvPub, []byte(body))
	if err != nil {
		return "", err
	}
	return wrap(strconv.Itoa(int(KindData))) + wrap(strconv.Itoa(label)) + wrap(enc), nil
}

// DecodeData decrypts a DATA body with the receiver's private key.
func DecodeData(fields []string, priv *rsa.PrivateKey) (*Data, bool) {
	if len(fields) != 2 {
		return nil, false
	}
	label, err := parseInt(fields[0])
	if err != nil {
		return nil, false
	}
	pt, ok := crypto.Decrypt(priv, fields[1])
	if !ok {
		return nil, false
	}
	bodyFields, err := splitFields(string(pt))
	if err != nil || len(bodyFields) != 4 {
		return nil, false
	}
	retry, err := parseInt(bodyFields[2])
	if err != nil {
		return nil, false
	}
	return &Data{
		Label:     label,
		Name:      bodyFields[0],
		RequestID: bodyFields[1],
		Retry:     retry,
		Payload:   bodyFields[3],
	}, true
}

// Decode parses a raw frame into its concrete Packet, dispatching on
// the leading kind field. Gateway frames are not handled here -- the
// forwarding engine's Dispatch sniffs the literal "EG" prefix before
// ever calling Decode, per the wire contract.
func Decode(raw string, priv *rsa.PrivateKey, membershipPub *rsa.PublicKey) (Packet, error) {
	fields, err := splitFields(raw)
	if err != nil || len(fields) == 0 {
		return nil, ErrMalformed
	}
	kindN, err := parseInt(fields[0])
	if err != nil {
		return nil, ErrMalformed
	}
	kind := Kind(kindN)
	rest := fields[1:]

	switch kind {
	case KindHello, KindHelloAck:
		return DecodeHello(kind, rest, membershipPub)
	case KindInterest:
		pkt, ok := DecodeInterest(rest, priv)
		if !ok {
			return nil, ErrMalformed
		}
		return pkt, nil
	case KindData:
		pkt, ok := DecodeData(rest, priv)
		if !ok {
			return nil, ErrMalformed
		}
		return pkt, nil
	default:
		return nil, ErrMalformed
	}
}
