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
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/deepfabric/cellkv/pkg/client"
	"github.com/montanaflynn/stats"
)

var (
	con            = flag.Int64("c", 1, "The concurrency.")
	num            = flag.Int64("n", 10000, "The total number.")
	keys           = flag.Int("k", 100, "The number of keys.")
	members        = flag.Int("m", 1000, "The number of set members.")
	mode           = flag.String("mode", "incr", "The command to bench: incr|sadd")
	readTimeout    = flag.Int("rt", 30, "The timeout for read in seconds")
	writeTimeout   = flag.Int("wt", 30, "The timeout for write in seconds")
	connectTimeout = flag.Int("ct", 10, "The timeout for connect to server")
	addr           = flag.String("addr", "127.0.0.1:6379", "The target address.")
)

func main() {
	flag.Parse()

	if *con <= 0 || *num <= 0 || *keys <= 0 || *members <= 0 {
		fmt.Println("c, n, k and m must be greater than 0")
		os.Exit(1)
	}

	op, err := newOp(*mode)
	if err != nil {
		fmt.Printf("%+v\n", err)
		os.Exit(1)
	}

	c := client.NewClientWithCfg(&client.Cfg{
		Addr:           *addr,
		MaxIdle:        int(*con),
		MaxActive:      int(*con),
		ConnectTimeout: time.Second * time.Duration(*connectTimeout),
		ReadTimeout:    time.Second * time.Duration(*readTimeout),
		WriteTimeout:   time.Second * time.Duration(*writeTimeout),
	})
	defer c.Close()

	if err := c.Ping(); err != nil {
		fmt.Printf("%+v\n", err)
		os.Exit(1)
	}

	gCount := *con
	total := *num
	countPerG := total / gCount

	ready := make(chan struct{})
	complate := &sync.WaitGroup{}
	ans := newAnalysis(total)

	var index int64
	for index = 0; index < gCount; index++ {
		start := index * countPerG
		end := (index + 1) * countPerG
		if index == gCount-1 {
			end = total
		}

		complate.Add(1)
		go startG(c, op, end-start, complate, ready, ans)
	}

	ans.start()
	close(ready)
	complate.Wait()
	ans.end()

	ans.print()
}

type op func(c *client.Client, r *rand.Rand) error

func newOp(mode string) (op, error) {
	switch mode {
	case "incr":
		return func(c *client.Client, r *rand.Rand) error {
			_, err := c.Incr(fmt.Sprintf("bench-counter-%d", r.Intn(*keys)))
			return err
		}, nil
	case "sadd":
		return func(c *client.Client, r *rand.Rand) error {
			_, err := c.SAdd(fmt.Sprintf("bench-set-%d", r.Intn(*keys)),
				fmt.Sprintf("%d", r.Intn(*members)))
			return err
		}, nil
	}

	return nil, fmt.Errorf("unknown mode %s", mode)
}

func startG(c *client.Client, fn op, total int64, complate *sync.WaitGroup, ready chan struct{}, ans *analysis) {
	defer complate.Done()

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	costs := make([]float64, 0, total)

	<-ready

	var index int64
	for ; index < total; index++ {
		start := time.Now()
		if err := fn(c, r); err != nil {
			fmt.Printf("%+v\n", err)
			os.Exit(1)
		}
		costs = append(costs, float64(time.Since(start).Nanoseconds()))
	}

	ans.add(costs)
}

type analysis struct {
	sync.Mutex
	startAt time.Time
	cost    time.Duration
	total   int64
	costs   stats.Float64Data
}

func newAnalysis(total int64) *analysis {
	return &analysis{
		total: total,
		costs: make(stats.Float64Data, 0, total),
	}
}

func (a *analysis) add(costs []float64) {
	a.Lock()
	a.costs = append(a.costs, costs...)
	a.Unlock()
}

func (a *analysis) start() {
	a.startAt = time.Now()
}

func (a *analysis) end() {
	a.cost = time.Since(a.startAt)
}

func (a *analysis) print() {
	min, _ := stats.Min(a.costs)
	max, _ := stats.Max(a.costs)
	mean, _ := stats.Mean(a.costs)
	p99, _ := stats.Percentile(a.costs, 99)

	fmt.Printf("%s sent %d reqs\n", a.cost, a.total)
	fmt.Printf("qps: <%.2f>\n", float64(a.total)/a.cost.Seconds())
	fmt.Printf("min: <%s>\n", time.Duration(min))
	fmt.Printf("max: <%s>\n", time.Duration(max))
	fmt.Printf("avg: <%s>\n", time.Duration(mean))
	fmt.Printf("p99: <%s>\n", time.Duration(p99))
}
