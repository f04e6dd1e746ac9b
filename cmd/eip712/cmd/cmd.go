// Copyright 2025 The Ethersign Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/ethersign/eip712structs/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	optionNameVerbosity = "verbosity"
)

func init() {
	cobra.EnableCommandSorting = false
}

type command struct {
	root   *cobra.Command
	config *viper.Viper
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "eip712",
			Short:         "EIP-712 typed structured data tool",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return c.initConfig()
			},
		},
	}

	for _, o := range opts {
		o(c)
	}

	c.initGlobalFlags()
	c.initHashCmd()
	c.initEncodeTypeCmd()
	c.initVersionCmd()

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.String(optionNameVerbosity, "info", "log verbosity level 'silent', 'error', 'warn', 'info', 'debug', 'trace'")
}

func (c *command) initConfig() (err error) {
	config := viper.New()
	config.SetEnvPrefix("eip712")
	config.AutomaticEnv() // read in environment variables that match
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := config.BindPFlags(c.root.PersistentFlags()); err != nil {
		return err
	}

	c.config = config
	return nil
}

func (c *command) setLogger() (logger logging.Logger, err error) {
	v := strings.ToLower(c.config.GetString(optionNameVerbosity))
	switch v {
	case "0", "silent":
		logger = logging.New(ioutil.Discard, 0)
	case "1", "error":
		logger = logging.New(os.Stderr, logrus.ErrorLevel)
	case "2", "warn":
		logger = logging.New(os.Stderr, logrus.WarnLevel)
	case "3", "info":
		logger = logging.New(os.Stderr, logrus.InfoLevel)
	case "4", "debug":
		logger = logging.New(os.Stderr, logrus.DebugLevel)
	case "5", "trace":
		logger = logging.New(os.Stderr, logrus.TraceLevel)
	default:
		return nil, fmt.Errorf("unknown verbosity level %q", v)
	}
	return logger, nil
}

// readInput reads the typed data JSON document from the file named by the
// first argument, or from standard input when no argument (or "-") is
// given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		return ioutil.ReadFile(args[0])
	}
	return ioutil.ReadAll(cmd.InOrStdin())
}
