// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package storage

import "time"

// StorageConfig defines configuration for the snapshot store
type StorageConfig struct {
	DataPath    string        // 数据目录
	Cache       int           // LevelDB 缓存大小（MB）
	Handles     int           // LevelDB 文件句柄数
	LockTimeout time.Duration // 等待数据目录锁的时间
}

// DefaultStorageConfig returns the default storage configuration
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		DataPath:    "stablegov-data",
		Cache:       16,
		Handles:     16,
		LockTimeout: 10 * time.Second,
	}
}

// SchemaVersion is the snapshot layout version written alongside the state.
type SchemaVersion uint8

const (
	SchemaV1 SchemaVersion = 0x01 // governor + ledger 快照
)
