// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package mpq

// Bank selects which of the four logical hash functions to compute.
// Each bank indexes a disjoint 256-entry slice of cryptTable.
type Bank uint32

const (
	BankTableOffset Bank = 0
	BankNameA       Bank = 1
	BankNameB       Bank = 2
	BankFileKey     Bank = 3
)

// hashString computes the MPQ hash of s under the given bank. Forward
// slashes are canonicalized to backslashes and ASCII letters are
// upper-cased before hashing, so "Data/x.txt" and "DATA\\X.TXT" hash
// identically.
func hashString(s string, bank Bank) uint32 {
	seed1 := uint32(0x7FED7FED)
	seed2 := uint32(0xEEEEEEEE)

	for i := 0; i < len(s); i++ {
		ch := uint32(s[i])
		if ch >= 'a' && ch <= 'z' {
			ch -= 0x20
		}
		if ch == '/' {
			ch = '\\'
		}

		seed1 = cryptTable[uint32(bank)*0x100+ch] ^ (seed1 + seed2)
		seed2 = ch + seed1 + seed2 + (seed2 << 5) + 3
	}

	return seed1
}

// Hash computes the MPQ name hash of name under bank. It is exported
// so callers (and tests) can reproduce the three per-file hashes and
// the two table decryption keys without going through Archive.
func Hash(name string, bank Bank) uint32 {
	return hashString(name, bank)
}
