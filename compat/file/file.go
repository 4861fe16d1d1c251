// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package file is the pluggable file I/O cmd/pegc reads a grammar
// source from and writes a generated parser to. A "/memfs/"-prefixed
// path is hijacked to an in-process github.com/golang/leveldb/memfs
// file system instead of the OS file system, letting cmd/pegc's own
// tests exercise the driver without touching disk.
package file

import (
	"io/ioutil"
	"path"
	"strings"
	"sync"

	"github.com/golang/leveldb/db"
	"github.com/golang/leveldb/memfs"
)

var (
	once  sync.Once
	memFS db.FileSystem
)

func fs() db.FileSystem {
	once.Do(func() {
		memFS = memfs.New()
	})
	return memFS
}

// ReadFile reads the contents of filename, a grammar source or any
// other input cmd/pegc needs, into memory.
func ReadFile(filename string) ([]byte, error) {
	if strings.HasPrefix(filename, "/memfs/") {
		f, err := fs().Open(filename)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		fi, err := fs().Stat(filename)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, int(fi.Size()))
		n, err := f.Read(buf)
		if err != nil {
			return nil, err
		}
		return buf[:n], nil
	}
	return ioutil.ReadFile(filename)
}

// WriteFile writes contents (the generated parser source) to filename.
func WriteFile(filename string, contents []byte) error {
	if strings.HasPrefix(filename, "/memfs/") {
		if err := fs().MkdirAll(path.Dir(filename), 0770); err != nil {
			return err
		}
		f, err := fs().Create(filename)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = f.Write(contents)
		return err
	}
	return ioutil.WriteFile(filename, contents, 0644)
}
