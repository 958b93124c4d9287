package mips

import (
	"strconv"
	"strings"
)

const (
	regZero = 0
	regV0   = 2
	regA0   = 4
	regSP   = 29
	regFP   = 30
	regRA   = 31
)

var registerNames = map[string]int{
	"zero": 0, "at": 1, "v0": 2, "v1": 3,
	"a0": 4, "a1": 5, "a2": 6, "a3": 7,
	"t0": 8, "t1": 9, "t2": 10, "t3": 11, "t4": 12, "t5": 13, "t6": 14, "t7": 15,
	"s0": 16, "s1": 17, "s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23,
	"t8": 24, "t9": 25, "k0": 26, "k1": 27,
	"gp": 28, "sp": 29, "fp": 30, "s8": 30, "ra": 31,
}

// parseRegister accepts $name or $number.
func parseRegister(s string) (int, bool) {
	if !strings.HasPrefix(s, "$") {
		return 0, false
	}
	name := s[1:]
	if n, ok := registerNames[name]; ok {
		return n, true
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 || n > 31 {
		return 0, false
	}
	return n, true
}
