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

package server

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/deepfabric/cellkv/pkg/storage"
	"github.com/deepfabric/cellkv/pkg/util"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DriverMemory memory storage driver
	DriverMemory = "memory"
	// DriverBadger badger storage driver
	DriverBadger = "badger"

	defaultListen          = ":6379"
	defaultReadBufferSize  = 256
	defaultWriteBufferSize = 256
)

// Cfg server configuration
type Cfg struct {
	Redis   *RedisCfg   `json:"redis" yaml:"redis"`
	API     *APICfg     `json:"api" yaml:"api"`
	Storage *StorageCfg `json:"storage" yaml:"storage"`
}

// RedisCfg is used for configuration
type RedisCfg struct {
	Listen string `json:"listen" yaml:"listen"`

	ReadBufferSize  int `json:"readBufferSize" yaml:"readBufferSize"`
	WriteBufferSize int `json:"writeBufferSize" yaml:"writeBufferSize"`

	// MaxClients 0 means unlimited
	MaxClients uint64 `json:"maxClients" yaml:"maxClients"`
	// LimitCMDRate commands per second of the whole server, 0 means unlimited
	LimitCMDRate  int `json:"limitCMDRate" yaml:"limitCMDRate"`
	LimitCMDBurst int `json:"limitCMDBurst" yaml:"limitCMDBurst"`
}

// APICfg admin http api cfg, empty addr disables the api server
type APICfg struct {
	Addr string `json:"addr" yaml:"addr"`
}

// StorageCfg storage cfg
type StorageCfg struct {
	Driver string             `json:"driver" yaml:"driver"`
	Badger *storage.BadgerCfg `json:"badger" yaml:"badger"`
}

// NewCfg returns default cfg
func NewCfg() *Cfg {
	return &Cfg{
		Redis: &RedisCfg{
			Listen:          defaultListen,
			ReadBufferSize:  defaultReadBufferSize,
			WriteBufferSize: defaultWriteBufferSize,
		},
		API: &APICfg{},
		Storage: &StorageCfg{
			Driver: DriverMemory,
			Badger: &storage.BadgerCfg{},
		},
	}
}

// LoadCfg load cfg from a json or yaml file, the format is decided by the file extension.
// Fields not in the file keep the default value.
func LoadCfg(file string) (*Cfg, error) {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read cfg %s", file)
	}

	cfg, err := unmarshal(data, filepath.Ext(file))
	if err != nil {
		return nil, errors.Wrapf(err, "parse cfg %s", file)
	}

	return cfg, nil
}

func unmarshal(data []byte, ext string) (*Cfg, error) {
	v := NewCfg()

	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}

	if nil != err {
		return nil, err
	}

	v.adjust()
	return v, v.validate()
}

func (c *Cfg) adjust() {
	if c.Redis == nil {
		c.Redis = &RedisCfg{}
	}
	if c.API == nil {
		c.API = &APICfg{}
	}
	if c.Storage == nil {
		c.Storage = &StorageCfg{}
	}
	if c.Storage.Badger == nil {
		c.Storage.Badger = &storage.BadgerCfg{}
	}

	c.Redis.Listen = util.GetStringValue(c.Redis.Listen, defaultListen)
	c.Redis.ReadBufferSize = util.GetIntValue(c.Redis.ReadBufferSize, defaultReadBufferSize)
	c.Redis.WriteBufferSize = util.GetIntValue(c.Redis.WriteBufferSize, defaultWriteBufferSize)
	c.Storage.Driver = util.GetStringValue(c.Storage.Driver, DriverMemory)
}

func (c *Cfg) validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverBadger:
		if !c.Storage.Badger.InMemory && c.Storage.Badger.DataPath == "" {
			return errors.New("badger data path must be set")
		}
	default:
		return errors.Errorf("unknown storage driver %s", c.Storage.Driver)
	}

	if c.Redis.LimitCMDRate < 0 || c.Redis.LimitCMDBurst < 0 {
		return errors.New("command rate limit must not be negative")
	}

	return nil
}
