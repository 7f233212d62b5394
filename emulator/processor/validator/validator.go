// +build validator

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

package validator

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"strings"

	"github.com/andreas-jonsson/virtualc8/emulator/processor"
	"github.com/spf13/afero"
)

const Enabled = true

var (
	inScope      bool
	currentEvent Event
	outputChan   chan Event
	quitChan     chan struct{}
)

type eventWriter interface {
	Encode(Event) error
}

type jsonWriter struct {
	enc *json.Encoder
}

func (w jsonWriter) Encode(ev Event) error {
	return w.enc.Encode(ev)
}

// Initialize starts recording events to output. Files ending in .gz use the binary encoder.
func Initialize(fs afero.Fs, output string, queueSize, bufferSize int) error {
	if output == "" {
		return nil
	}

	fp, err := fs.Create(output)
	if err != nil {
		return err
	}

	outputChan = make(chan Event, queueSize)
	quitChan = make(chan struct{})

	go func(events <-chan Event, done chan<- struct{}) {
		defer func() { done <- struct{}{} }()
		if err := writeEvents(fp, events, output, bufferSize); err != nil {
			log.Print(err)
			log.Print("Trace recording stopped!")
			for range events {
			}
		}
	}(outputChan, quitChan)
	return nil
}

// writeEvents encodes events until the channel is closed.
func writeEvents(fp io.WriteCloser, events <-chan Event, output string, bufferSize int) error {
	defer fp.Close()

	var (
		buffer bytes.Buffer
		w      eventWriter
		bin    *Encoder
	)
	if strings.HasSuffix(output, ".gz") {
		bin = NewEncoder(&buffer)
		w = bin
	} else {
		w = jsonWriter{json.NewEncoder(&buffer)}
	}

	for ev := range events {
		if err := w.Encode(ev); err != nil {
			return err
		}

		if buffer.Len() >= bufferSize {
			log.Print("Flush validation events!")
			if _, err := io.Copy(fp, &buffer); err != nil {
				return err
			}
		}
	}

	if bin != nil {
		if err := bin.Close(); err != nil {
			return err
		}
	}
	_, err := io.Copy(fp, &buffer)
	return err
}

func Begin(pc, opcode uint16, regs processor.Registers) {
	if outputChan == nil {
		return
	}
	inScope = true
	currentEvent = EmptyEvent
	currentEvent.PC = pc
	currentEvent.Opcode = opcode
	currentEvent.Before = regs
}

func End(regs processor.Registers) {
	if !inScope {
		return
	}
	inScope = false
	currentEvent.After = regs
	outputChan <- currentEvent
}

func Discard() {
	inScope = false
}

func ReadByte(addr uint16, data byte) {
	if inScope && !pushMemOp(&currentEvent.Reads, addr, data) {
		log.Panic("Max reads!")
	}
}

func WriteByte(addr uint16, data byte) {
	if inScope && !pushMemOp(&currentEvent.Writes, addr, data) {
		log.Panic("Max writes!")
	}
}

func Shutdown() {
	if outputChan == nil {
		return
	}
	close(outputChan)
	<-quitChan
	outputChan = nil
}
