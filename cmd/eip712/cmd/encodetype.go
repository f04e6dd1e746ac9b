// Copyright 2025 The Ethersign Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/ethersign/eip712structs/pkg/eip712"
	"github.com/spf13/cobra"
)

func (c *command) initEncodeTypeCmd() {
	c.root.AddCommand(&cobra.Command{
		Use:   "encode-type [file]",
		Short: "Print the canonical type signature of the primary type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			message, _, err := eip712.ParseTypedDataJSON(data)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), message.Type().EncodeType())
			return nil
		},
	})
}
