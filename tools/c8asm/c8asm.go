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
	"bytes"
	"flag"
	"log"

	"github.com/andreas-jonsson/virtualc8/emulator/memory"
	"github.com/andreas-jonsson/virtualc8/tools/c8asm/assembler"
	"github.com/spf13/afero"
)

var disassemble bool

func init() {
	flag.BoolVar(&disassemble, "d", false, "Disassemble a program image")
	flag.Usage = func() {
		log.Print("Usage: c8asm [-d] <input> <output>")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	if flag.NArg() != 2 {
		flag.Usage()
		return
	}

	fs := afero.NewOsFs()
	input, err := afero.ReadFile(fs, flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	var output bytes.Buffer
	if disassemble {
		err = assembler.Disassemble(input, &output)
	} else {
		err = assembler.Assemble(bytes.NewReader(input), &output)
	}
	if err != nil {
		log.Fatal(err)
	}

	if !disassemble && output.Len() > memory.MaxProgramSize {
		log.Printf("Warning: program is %d bytes, only %d bytes can be loaded.", output.Len(), memory.MaxProgramSize)
	}
	if err := afero.WriteFile(fs, flag.Arg(1), output.Bytes(), 0644); err != nil {
		log.Fatal(err)
	}
}
