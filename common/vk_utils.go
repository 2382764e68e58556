package common

import (
	"bytes"
	"encoding/binary"
	"log"
	"strings"
)

// IsSubset reports whether every element of a is contained in b. Used for extension and layer support checks.
func IsSubset(a []string, b []string) bool {
	for _, x := range a {
		found := false
		for _, y := range b {
			if strings.TrimRight(x, "\x00") == strings.TrimRight(y, "\x00") {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RawBytes writes a fixed size value (struct of fixed size fields, array or slice of those) as tightly packed little
// endian bytes, which is the layout the vertex input and uniform bindings expect.
func RawBytes(p any) []byte {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, p); err != nil {
		log.Panicf("Failed to serialize %T: %v", p, err)
	}
	return buf.Bytes()
}

// TerminatedStr ensures the given string is \x00 terminated as Vulkan expects this in certain structs.
func TerminatedStr(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

// TerminatedStrs returns a terminated copy of strs. The input is left untouched.
func TerminatedStrs(strs []string) []string {
	out := make([]string, len(strs))
	for i := range strs {
		out[i] = TerminatedStr(strs[i])
	}
	return out
}
