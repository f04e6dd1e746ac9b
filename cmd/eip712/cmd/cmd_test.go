// Copyright 2025 The Ethersign Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ethersign/eip712structs/cmd/eip712/cmd"
)

// etherMailJSON is the typed data example from the EIP-712 specification.
const etherMailJSON = `{
	"types": {
		"EIP712Domain": [
			{"name": "name", "type": "string"},
			{"name": "version", "type": "string"},
			{"name": "chainId", "type": "uint256"},
			{"name": "verifyingContract", "type": "address"}
		],
		"Person": [
			{"name": "name", "type": "string"},
			{"name": "wallet", "type": "address"}
		],
		"Mail": [
			{"name": "from", "type": "Person"},
			{"name": "to", "type": "Person"},
			{"name": "contents", "type": "string"}
		]
	},
	"primaryType": "Mail",
	"domain": {
		"name": "Ether Mail",
		"version": "1",
		"chainId": 1,
		"verifyingContract": "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC"
	},
	"message": {
		"from": {"name": "Cow", "wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826"},
		"to": {"name": "Bob", "wallet": "0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB"},
		"contents": "Hello, Bob!"
	}
}`

func newCommand(t *testing.T, opts ...cmd.Option) (c *cmd.Command) {
	t.Helper()

	c, err := cmd.NewCommand(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestHashCmd(t *testing.T) {
	var outputBuf bytes.Buffer
	if err := newCommand(t,
		cmd.WithArgs("hash", "-"),
		cmd.WithInput(strings.NewReader(etherMailJSON)),
		cmd.WithOutput(&outputBuf),
	).Execute(); err != nil {
		t.Fatal(err)
	}

	got := outputBuf.String()
	for _, want := range []string{
		"0xf2cee375fa42b42143804025fc449deafd50cc031ca257e0b194a650a912090f",
		"0xc52c0ee5d84264471806290a3f2c4cecfc5490626bf912d01f240d7a274b371e",
		"0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestHashCmdInvalidInput(t *testing.T) {
	var outputBuf bytes.Buffer
	err := newCommand(t,
		cmd.WithArgs("hash", "-"),
		cmd.WithInput(strings.NewReader(`{"primaryType":"Nope","types":{}}`)),
		cmd.WithOutput(&outputBuf),
	).Execute()
	if err == nil {
		t.Fatal("expected error for unknown primary type")
	}
}

func TestEncodeTypeCmd(t *testing.T) {
	var outputBuf bytes.Buffer
	if err := newCommand(t,
		cmd.WithArgs("encode-type", "-"),
		cmd.WithInput(strings.NewReader(etherMailJSON)),
		cmd.WithOutput(&outputBuf),
	).Execute(); err != nil {
		t.Fatal(err)
	}

	want := "Mail(Person from,Person to,string contents)Person(string name,address wallet)\n"
	if got := outputBuf.String(); got != want {
		t.Errorf("got output %q, want %q", got, want)
	}
}
