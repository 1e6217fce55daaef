// Copyright 2016 DeepFabric, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/deepfabric/cellkv/pkg/client"
	"github.com/spf13/cobra"
)

var (
	addr    string
	timeout time.Duration
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "cell-cli",
		Short:        "Command line client of cell",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", "127.0.0.1:6379", "The cell address.")
	root.PersistentFlags().DurationVar(&timeout, "timeout", time.Second*10, "The timeout of connect, read and write.")

	root.AddCommand(
		noArgsCmd("ping", "Ping the cell", func(c *client.Client) (interface{}, error) {
			return "PONG", c.Ping()
		}),
		keysCmd("del", "Delete the keys", func(c *client.Client, keys []string) (interface{}, error) {
			return c.Del(keys...)
		}),
		keysCmd("exists", "Count the exists keys", func(c *client.Client, keys []string) (interface{}, error) {
			return c.Exists(keys...)
		}),
		exactArgsCmd("get <key>", "Get the value of the key", 1, func(c *client.Client, args []string) (interface{}, error) {
			value, err := c.Get(args[0])
			if client.IsNil(err) {
				return nil, nil
			}
			return value, err
		}),
		exactArgsCmd("set <key> <value>", "Set the value of the key", 2, func(c *client.Client, args []string) (interface{}, error) {
			return "OK", c.Set(args[0], args[1])
		}),
		exactArgsCmd("incr <key>", "Increment the counter by one", 1, func(c *client.Client, args []string) (interface{}, error) {
			return c.Incr(args[0])
		}),
		exactArgsCmd("decr <key>", "Decrement the counter by one", 1, func(c *client.Client, args []string) (interface{}, error) {
			return c.Decr(args[0])
		}),
		exactArgsCmd("incrby <key> <increment>", "Increment the counter", 2, func(c *client.Client, args []string) (interface{}, error) {
			n, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return nil, err
			}
			return c.IncrBy(args[0], n)
		}),
		exactArgsCmd("decrby <key> <decrement>", "Decrement the counter", 2, func(c *client.Client, args []string) (interface{}, error) {
			n, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return nil, err
			}
			return c.DecrBy(args[0], n)
		}),
		minArgsCmd("sadd <key> <member>...", "Add members to the set", 2, func(c *client.Client, args []string) (interface{}, error) {
			return c.SAdd(args[0], args[1:]...)
		}),
		minArgsCmd("srem <key> <member>...", "Remove members from the set", 2, func(c *client.Client, args []string) (interface{}, error) {
			return c.SRem(args[0], args[1:]...)
		}),
		exactArgsCmd("scard <key>", "Number of members of the set", 1, func(c *client.Client, args []string) (interface{}, error) {
			return c.SCard(args[0])
		}),
		exactArgsCmd("sismember <key> <member>", "Check the member is in the set", 2, func(c *client.Client, args []string) (interface{}, error) {
			return c.SIsMember(args[0], args[1])
		}),
		exactArgsCmd("smembers <key>", "Members of the set", 1, func(c *client.Client, args []string) (interface{}, error) {
			return c.SMembers(args[0])
		}),
		keysCmd("sinter", "Intersection of the sets", func(c *client.Client, keys []string) (interface{}, error) {
			return c.SInter(keys...)
		}),
		keysCmd("sunion", "Union of the sets", func(c *client.Client, keys []string) (interface{}, error) {
			return c.SUnion(keys...)
		}),
		keysCmd("sdiff", "Members of the first set but not in others", func(c *client.Client, keys []string) (interface{}, error) {
			return c.SDiff(keys...)
		}),
	)

	return root
}

type handler func(c *client.Client, args []string) (interface{}, error)

func noArgsCmd(use, short string, fn func(c *client.Client) (interface{}, error)) *cobra.Command {
	return newCmd(use, short, cobra.NoArgs, func(c *client.Client, args []string) (interface{}, error) {
		return fn(c)
	})
}

func keysCmd(name, short string, fn handler) *cobra.Command {
	return newCmd(name+" <key>...", short, cobra.MinimumNArgs(1), fn)
}

func exactArgsCmd(use, short string, n int, fn handler) *cobra.Command {
	return newCmd(use, short, cobra.ExactArgs(n), fn)
}

func minArgsCmd(use, short string, n int, fn handler) *cobra.Command {
	return newCmd(use, short, cobra.MinimumNArgs(n), fn)
}

func newCmd(use, short string, args cobra.PositionalArgs, fn handler) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.NewClientWithCfg(&client.Cfg{
				Addr:           addr,
				ConnectTimeout: timeout,
				ReadTimeout:    timeout,
				WriteTimeout:   timeout,
			})
			defer c.Close()

			value, err := fn(c, args)
			if err != nil {
				return err
			}

			printValue(cmd, value)
			return nil
		},
	}
}

func printValue(cmd *cobra.Command, value interface{}) {
	out := cmd.OutOrStdout()
	switch v := value.(type) {
	case nil:
		fmt.Fprintln(out, "(nil)")
	case []string:
		if len(v) == 0 {
			fmt.Fprintln(out, "(empty)")
		}
		for i, s := range v {
			fmt.Fprintf(out, "%d) %s\n", i+1, s)
		}
	case int64:
		fmt.Fprintf(out, "(integer) %d\n", v)
	case bool:
		fmt.Fprintln(out, v)
	default:
		fmt.Fprintln(out, v)
	}
}
