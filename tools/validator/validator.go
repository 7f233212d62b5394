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

package main

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"

	"github.com/andreas-jonsson/virtualc8/emulator/processor/validator"
	"github.com/spf13/afero"
)

var (
	traceInput = "trace.json"
	refInput   = "reference.json"
	compare    = "regs"
)

func init() {
	flag.StringVar(&traceInput, "trace", traceInput, "Trace to check")
	flag.StringVar(&refInput, "reference", refInput, "Reference trace")
	flag.StringVar(&compare, "compare", compare, "Comparison: opcode, regs, memory or all")
}

var comparisons = map[string]func(a, b *validator.Event) bool{
	"opcode": equalOpcodeAndLocation,
	"regs":   equalRegisters,
	"memory": equalMemory,
	"all":    equalAll,
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	equal, ok := comparisons[compare]
	if !ok {
		log.Fatalf("Unknown comparison: %s", compare)
	}

	fs := afero.NewOsFs()
	traceFp, err := fs.Open(traceInput)
	if err != nil {
		log.Fatal(err)
	}
	defer traceFp.Close()

	refFp, err := fs.Open(refInput)
	if err != nil {
		log.Fatal(err)
	}
	defer refFp.Close()

	res, err := compareTraces(traceFp, refFp, equal)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Equal: %d, Different: %d", res.numEq, res.numDiff)
	if res.numDiff > 0 {
		os.Exit(1)
	}
}

type result struct {
	numEq, numDiff int
}

// compareTraces compares events pairwise. Events left over in the longer trace count as differences.
func compareTraces(trace, ref io.Reader, equal func(a, b *validator.Event) bool) (result, error) {
	var res result
	traceDec := json.NewDecoder(trace)
	refDec := json.NewDecoder(ref)

	for {
		var a, b validator.Event
		errA, errB := traceDec.Decode(&a), refDec.Decode(&b)
		if errA != nil && errA != io.EOF {
			return res, errA
		}
		if errB != nil && errB != io.EOF {
			return res, errB
		}

		switch {
		case errA == io.EOF && errB == io.EOF:
			return res, nil
		case errA == io.EOF:
			n, err := countRemaining(refDec)
			log.Printf("Trace ended after %d events, reference has %d more.", res.numEq+res.numDiff, n+1)
			res.numDiff += n + 1
			return res, err
		case errB == io.EOF:
			n, err := countRemaining(traceDec)
			log.Printf("Reference ended after %d events, trace has %d more.", res.numEq+res.numDiff, n+1)
			res.numDiff += n + 1
			return res, err
		}

		if equal(&a, &b) {
			res.numEq++
			continue
		}
		if res.numDiff == 0 {
			log.Printf("First difference after %d events:", res.numEq)
			log.Printf("  trace:     0x%03X %04X %s", a.PC, a.Opcode, a.After.String())
			log.Printf("  reference: 0x%03X %04X %s", b.PC, b.Opcode, b.After.String())
		}
		res.numDiff++
	}
}

func countRemaining(dec *json.Decoder) (int, error) {
	for n := 0; ; n++ {
		var ev validator.Event
		if err := dec.Decode(&ev); err == io.EOF {
			return n, nil
		} else if err != nil {
			return n, err
		}
	}
}

func equalAll(a, b *validator.Event) bool {
	return *a == *b
}

func equalOpcodeAndLocation(a, b *validator.Event) bool {
	return a.Opcode == b.Opcode && a.PC == b.PC
}

func equalRegisters(a, b *validator.Event) bool {
	return equalOpcodeAndLocation(a, b) && a.Before == b.Before && a.After == b.After
}

func equalMemory(a, b *validator.Event) bool {
	return equalOpcodeAndLocation(a, b) && a.Reads == b.Reads && a.Writes == b.Writes
}
