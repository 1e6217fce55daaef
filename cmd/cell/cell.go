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
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/deepfabric/cellkv/pkg/server"
	"github.com/fagongzi/log"
)

var (
	pprof   = flag.String("pprof-addr", "", "pprof http server address")
	cfgFile = flag.String("cfg", "", "Configuration file of cell, json or yaml by the file extension, flags override the file.")
)

var (
	addrCli        = flag.String("addr-cli", ":6379", "KV client address")
	addrAPI        = flag.String("addr-api", "", "Admin http api address, empty disables the api")
	driver         = flag.String("driver", server.DriverMemory, "Storage driver: memory|badger")
	dataDir        = flag.String("data", "", "The data dir of badger")
	inMemory       = flag.Bool("in-memory", false, "Badger: keep all data in memory")
	syncWrites     = flag.Bool("sync-writes", false, "Badger: sync every write to disk")
	bufferCliRead  = flag.Int("buffer-cli-read", 256, "Buffer(bytes): bytes of KV client read")
	bufferCliWrite = flag.Int("buffer-cli-write", 256, "Buffer(bytes): bytes of KV client write")
	maxClients     = flag.Uint64("limit-clients", 0, "Limit: Max count of KV clients, 0 means unlimited")
	limitCMDRate   = flag.Int("limit-cmd-rate", 0, "Limit: Max commands per second, 0 means unlimited")
	limitCMDBurst  = flag.Int("limit-cmd-burst", 0, "Limit: Burst of commands, default is the rate")
)

func main() {
	flag.Parse()

	log.InitLog()

	if "" != *pprof {
		log.Infof("bootstrap: start pprof at: %s", *pprof)
		go func() {
			log.Fatalf("bootstrap: start pprof failed, errors:\n%+v",
				http.ListenAndServe(*pprof, nil))
		}()
	}

	s, err := server.NewServer(parseCfg())
	if err != nil {
		log.Fatalf("bootstrap: create server failure, errors:\n %+v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	errC := make(chan error, 1)
	go func() {
		errC <- s.Start()
	}()

	select {
	case err := <-errC:
		log.Fatalf("exit: server failure, errors:\n %+v", err)
	case sig := <-sc:
		s.Stop()
		log.Infof("exit: signal=<%d>.", sig)
		switch sig {
		case syscall.SIGTERM:
			log.Infof("exit: bye :-).")
			os.Exit(0)
		default:
			log.Infof("exit: bye :-(.")
			os.Exit(1)
		}
	}
}

func parseCfg() *server.Cfg {
	cfg := server.NewCfg()
	if *cfgFile != "" {
		var err error
		cfg, err = server.LoadCfg(*cfgFile)
		if err != nil {
			fmt.Printf("%+v\n", err)
			os.Exit(-1)
		}
	}

	// only the flags set explicitly override the cfg file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr-cli":
			cfg.Redis.Listen = *addrCli
		case "addr-api":
			cfg.API.Addr = *addrAPI
		case "driver":
			cfg.Storage.Driver = *driver
		case "data":
			cfg.Storage.Badger.DataPath = *dataDir
		case "in-memory":
			cfg.Storage.Badger.InMemory = *inMemory
		case "sync-writes":
			cfg.Storage.Badger.SyncWrites = *syncWrites
		case "buffer-cli-read":
			cfg.Redis.ReadBufferSize = *bufferCliRead
		case "buffer-cli-write":
			cfg.Redis.WriteBufferSize = *bufferCliWrite
		case "limit-clients":
			cfg.Redis.MaxClients = *maxClients
		case "limit-cmd-rate":
			cfg.Redis.LimitCMDRate = *limitCMDRate
		case "limit-cmd-burst":
			cfg.Redis.LimitCMDBurst = *limitCMDBurst
		}
	})

	if cfg.Storage.Driver == server.DriverBadger &&
		cfg.Storage.Badger.DataPath == "" &&
		!cfg.Storage.Badger.InMemory {
		fmt.Println("Data dir must be set")
		os.Exit(-1)
	}

	return cfg
}
