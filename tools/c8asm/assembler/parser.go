/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package assembler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/andreas-jonsson/virtualc8/emulator/processor/cpu"
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrUnknownLabel   = errors.New("unknown label")
	ErrLabelRange     = errors.New("label address out of range")
)

type operandKind byte

const (
	registerOperand operandKind = iota
	keywordOperand
	numberOperand
	labelOperand
)

type operand struct {
	kind  operandKind
	value uint16
	name  string
}

// Line is one parsed source line. Lines without a label and statement are dropped.
type Line struct {
	Num   int
	Label string

	// Either an instruction or data.
	Op       cpu.Op
	Operands []operand
	Data     []byte
}

func (l *Line) Size() int {
	if l.Op != cpu.OpInvalid {
		return 2
	}
	return len(l.Data)
}

// Parse reads assembler source. A line holds an optional "label:", then an
// instruction or a comma separated list of data bytes, then an optional # comment.
func Parse(r io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(r)

	for num := 1; scanner.Scan(); num++ {
		line, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", num, err)
		}
		if line.Label != "" || line.Op != cpu.OpInvalid || len(line.Data) > 0 {
			line.Num = num
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func parseLine(text string) (Line, error) {
	var line Line
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)

	if i := strings.IndexByte(text, ':'); i >= 0 {
		label := text[:i]
		if !isLabel(label) || isReserved(label) {
			return line, fmt.Errorf("%w: invalid label %q", ErrSyntax, label)
		}
		line.Label = label
		text = strings.TrimSpace(text[i+1:])
	}

	if text == "" {
		return line, nil
	}

	if c := text[0]; c >= '0' && c <= '9' {
		data, err := parseData(text)
		line.Data = data
		return line, err
	}

	mnemonic, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		mnemonic, rest = text[:i], strings.TrimSpace(text[i:])
	}
	mnemonic = strings.ToUpper(mnemonic)

	var operands []operand
	if rest != "" {
		for _, s := range strings.Split(rest, ",") {
			op, err := parseOperand(strings.TrimSpace(s))
			if err != nil {
				return line, err
			}
			operands = append(operands, op)
		}
	}

	op, err := match(mnemonic, operands)
	line.Op, line.Operands = op, operands
	return line, err
}

func parseData(text string) ([]byte, error) {
	var data []byte
	for _, s := range strings.Split(text, ",") {
		v, err := parseNumber(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		if v > 0xFF {
			return nil, fmt.Errorf("%w: data value 0x%X does not fit in a byte", ErrSyntax, v)
		}
		data = append(data, byte(v))
	}
	return data, nil
}

func parseNumber(s string) (uint16, error) {
	base := 10
	switch lower := strings.ToLower(s); {
	case strings.HasPrefix(lower, "0x"):
		base, s = 16, s[2:]
	case strings.HasPrefix(lower, "0b"):
		base, s = 2, s[2:]
	}

	v, err := strconv.ParseUint(s, base, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %q", ErrSyntax, s)
	}
	return uint16(v), nil
}

var keywords = map[string]bool{"I": true, "[I]": true, "DT": true, "ST": true, "K": true, "F": true, "B": true}

func parseOperand(s string) (operand, error) {
	upper := strings.ToUpper(s)
	switch {
	case s == "":
		return operand{}, fmt.Errorf("%w: missing operand", ErrSyntax)
	case keywords[upper]:
		return operand{kind: keywordOperand, name: upper}, nil
	case len(upper) == 2 && upper[0] == 'V' && isHexDigit(upper[1]):
		v, _ := strconv.ParseUint(upper[1:], 16, 8)
		return operand{kind: registerOperand, value: uint16(v)}, nil
	case s[0] >= '0' && s[0] <= '9':
		v, err := parseNumber(s)
		return operand{kind: numberOperand, value: v}, err
	case isLabel(s):
		return operand{kind: labelOperand, name: s}, nil
	}
	return operand{}, fmt.Errorf("%w: invalid operand %q", ErrSyntax, s)
}

// isReserved reports names that parse as a keyword or register operand.
func isReserved(s string) bool {
	op, err := parseOperand(s)
	return err == nil && op.kind != labelOperand
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
}

func isLabel(s string) bool {
	for i, r := range s {
		if !(unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r))) {
			return false
		}
	}
	return s != ""
}
