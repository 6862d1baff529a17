//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func mapReadOnly(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
}

func unmap(data []byte) error {
	return unix.Munmap(data)
}

func advise(data []byte, a Advice) error {
	adv := unix.MADV_NORMAL
	switch a {
	case AdviceSequential:
		adv = unix.MADV_SEQUENTIAL
	case AdviceRandom:
		adv = unix.MADV_RANDOM
	}

	// The hint is advisory. EINVAL from an unaligned slice is harmless.
	if err := unix.Madvise(data, adv); err != nil && err != unix.EINVAL {
		return err
	}
	return nil
}
