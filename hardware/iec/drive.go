// This file is part of Koalastream.
//
// Koalastream is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Koalastream is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Koalastream.  If not, see <https://www.gnu.org/licenses/>.

package iec

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vreid/koalastream/curated"
)

// Sentinal error patterns for the disk drive.
const (
	FileNotFound = "drive: file not found (%s)"
	ChannelInUse = "drive: channel %d already in use"
	DiskError    = "drive: %v"
)

// DiskDrive is a Device that serves files from a fs.FS. The files of the disk
// are the regular files in the root of the file system.
type DiskDrive struct {
	id     int
	disk   fs.FS
	cycles int

	// open files indexed by secondary address
	channels map[int]*file

	// closer for the underlying disk. nil if the disk doesn't need closing
	closer io.Closer
}

// NewDiskDrive is the preferred method of initialisation for the DiskDrive
// type.
func NewDiskDrive(id int, disk fs.FS, transferCycles int) *DiskDrive {
	return &DiskDrive{
		id:       id,
		disk:     disk,
		cycles:   transferCycles,
		channels: make(map[int]*file),
	}
}

// OpenDisk creates a DiskDrive for the path. The path can be a directory or a
// zip archive.
func OpenDisk(id int, path string, transferCycles int) (*DiskDrive, error) {
	inf, err := os.Stat(path)
	if err != nil {
		return nil, curated.Errorf(DiskError, err)
	}

	if inf.IsDir() {
		return NewDiskDrive(id, os.DirFS(path), transferCycles), nil
	}

	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return nil, curated.Errorf(DiskError, "not a directory or zip file")
	}

	zf, err := zip.OpenReader(path)
	if err != nil {
		return nil, curated.Errorf(DiskError, err)
	}

	drv := NewDiskDrive(id, zf, transferCycles)
	drv.closer = zf
	return drv, nil
}

// Eject the disk. Any open files are closed.
func (drv *DiskDrive) Eject() error {
	clear(drv.channels)
	if drv.closer != nil {
		err := drv.closer.Close()
		drv.closer = nil
		if err != nil {
			return curated.Errorf(DiskError, err)
		}
	}
	return nil
}

// ID implements the Device interface.
func (drv *DiskDrive) ID() int {
	return drv.id
}

// TransferCycles implements the Device interface.
func (drv *DiskDrive) TransferCycles() int {
	return drv.cycles
}

// Files returns the names of the files on the disk.
func (drv *DiskDrive) Files() ([]string, error) {
	ents, err := fs.ReadDir(drv.disk, ".")
	if err != nil {
		return nil, curated.Errorf(DiskError, err)
	}
	var names []string
	for _, e := range ents {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// lookup finds the file with the name. an exact match is preferred. if there
// is no exact match then the first file that matches without regard to case
// is used. names given by the machine are usually upper case but files on the
// host are usually lower case.
func (drv *DiskDrive) lookup(name string) (string, error) {
	if inf, err := fs.Stat(drv.disk, name); err == nil && inf.Mode().IsRegular() {
		return name, nil
	}

	files, err := drv.Files()
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if strings.EqualFold(f, name) {
			return f, nil
		}
	}

	return "", curated.Errorf(FileNotFound, name)
}

// Open implements the Device interface. The file is read into memory in its
// entirety.
func (drv *DiskDrive) Open(name string, secondary int) (Stream, error) {
	secondary &= 0x0f
	if _, ok := drv.channels[secondary]; ok {
		return nil, curated.Errorf(ChannelInUse, secondary)
	}

	fn, err := drv.lookup(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(drv.disk, fn)
	if err != nil {
		return nil, curated.Errorf(DiskError, err)
	}

	f := &file{
		drv:       drv,
		secondary: secondary,
		data:      data,
	}
	drv.channels[secondary] = f

	return f, nil
}

type file struct {
	drv       *DiskDrive
	secondary int
	data      []uint8
	idx       int
}

// Next implements the Stream interface.
func (f *file) Next() (uint8, uint8) {
	if f.idx >= len(f.data) {
		return 0, StatusEOI | StatusTimeout
	}
	d := f.data[f.idx]
	f.idx++
	if f.idx == len(f.data) {
		return d, StatusEOI
	}
	return d, 0
}

// Close implements the Stream interface.
func (f *file) Close() error {
	if f.drv.channels[f.secondary] == f {
		delete(f.drv.channels, f.secondary)
	}
	return nil
}
