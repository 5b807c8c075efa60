// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strconv"
	"strings"
)

func codeString(b []byte) string {
	switch len(b) {
	case 1:
		return fmt.Sprintf("%02X", b[0])
	case 2:
		return fmt.Sprintf("%02X %02X", b[0], b[1])
	default:
		return ""
	}
}

// parseValue converts a number written as $hex, 0xhex or decimal.
func parseValue(s string) (int, error) {
	var (
		v   uint64
		err error
	)
	switch {
	case strings.HasPrefix(s, "$"):
		v, err = strconv.ParseUint(s[1:], 16, 32)
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 32)
	default:
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s'", s)
	}
	return int(v), nil
}

// parseKey converts a single hex digit into a keypad key.
func parseKey(s string) (byte, error) {
	if len(s) == 1 {
		if k, ok := keyFromChar(s[0]); ok {
			return k, nil
		}
	}
	return 0, fmt.Errorf("invalid key '%s'", s)
}

// keyFromChar maps the characters 0-9 and a-f onto keypad keys.
func keyFromChar(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false", "up":
		return false, nil
	case "1", "true", "down":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>8)&0xf]
	b[1] = hexString[(addr>>4)&0xf]
	b[2] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	switch {
	case v >= 32 && v < 127:
		return v
	default:
		return '.'
	}
}

// firstWords returns the command words of a usage string, dropping the
// argument placeholders.
func firstWords(usage string) string {
	if i := strings.IndexAny(usage, "<["); i >= 0 {
		usage = usage[:i]
	}
	return strings.TrimSpace(usage)
}

// indentWrap wraps text at 78 columns, indenting every line by 'indent'
// spaces.
func indentWrap(indent int, s string) string {
	pad := strings.Repeat(" ", indent)
	var (
		sb  strings.Builder
		col int
	)
	for _, w := range strings.Fields(s) {
		switch {
		case col == 0:
			sb.WriteString(pad)
			col = indent
		case col+1+len(w) > 78:
			sb.WriteString("\n" + pad)
			col = indent
		default:
			sb.WriteByte(' ')
			col++
		}
		sb.WriteString(w)
		col += len(w)
	}
	return sb.String()
}
