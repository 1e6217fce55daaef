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

// counter demonstrates the INCR and DECR commands.
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

	_, err := c.Del("counter")
	exitIfError(err)

	fmt.Println("incr")
	for i := 0; i < 3; i++ {
		n, err := c.Incr("counter")
		exitIfError(err)
		fmt.Println(n)
	}

	fmt.Println()
	fmt.Println("decr")
	for i := 0; i < 3; i++ {
		n, err := c.Decr("counter")
		exitIfError(err)
		fmt.Println(n)
	}
}

func exitIfError(err error) {
	if err != nil {
		fmt.Printf("%+v\n", err)
		os.Exit(1)
	}
}
