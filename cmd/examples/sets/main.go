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

// sets shows a few commands for the set datatype.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/deepfabric/cellkv/pkg/client"
)

var (
	addr = flag.String("addr", "127.0.0.1:6379", "The cell address.")
)

func main() {
	flag.Parse()

	c := client.NewClient(*addr)
	defer c.Close()

	_, err := c.Del("foo-tags")
	exitIfError(err)
	_, err = c.Del("bar-tags")
	exitIfError(err)

	fmt.Println()
	fmt.Println("create a set of tags on foo-tags")
	addTags(c, "foo-tags", "one", "two", "three")

	fmt.Println()
	fmt.Println("create a set of tags on bar-tags")
	addTags(c, "bar-tags", "three", "four", "five")

	fmt.Println()
	fmt.Println("foo-tags")
	members, err := c.SMembers("foo-tags")
	exitIfError(err)
	printLines(members)

	fmt.Println()
	fmt.Println("bar-tags")
	members, err = c.SMembers("bar-tags")
	exitIfError(err)
	printLines(members)

	fmt.Println()
	fmt.Println("intersection of foo-tags and bar-tags")
	members, err = c.SInter("foo-tags", "bar-tags")
	exitIfError(err)
	printLines(members)
}

func addTags(c *client.Client, key string, tags ...string) {
	for _, tag := range tags {
		_, err := c.SAdd(key, tag)
		exitIfError(err)
	}
}

func printLines(values []string) {
	for _, v := range values {
		fmt.Println(v)
	}
}

func exitIfError(err error) {
	if err != nil {
		fmt.Printf("%+v\n", err)
		os.Exit(1)
	}
}
