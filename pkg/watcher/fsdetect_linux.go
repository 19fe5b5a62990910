//go:build linux

package watcher

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// statfs magic numbers from linux/magic.h.
const (
	nfsSuperMagic  = 0x6969
	smbSuperMagic  = 0x517B
	cifsMagic      = 0xFF534D42
	smb2Magic      = 0xFE534D42
	fuseSuperMagic = 0x65735546
	v9fsMagic      = 0x01021997
)

// DetectFilesystemType classifies the filesystem holding path. When path does
// not exist yet its directory is inspected instead.
func DetectFilesystemType(path string) FilesystemType {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		if err := unix.Statfs(filepath.Dir(path), &st); err != nil {
			return FSTypeUnknown
		}
	}
	switch uint32(st.Type) {
	case nfsSuperMagic:
		return FSTypeNFS
	case smbSuperMagic, cifsMagic, smb2Magic:
		return FSTypeSMB
	case fuseSuperMagic:
		return FSTypeFUSE
	case v9fsMagic:
		return FSType9P
	}
	return FSTypeLocal
}
