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

package platform

import (
	"io/ioutil"
	"log"
	"sync"

	"github.com/gdamore/tcell"
)

type tcellPlatform struct {
	sync.Mutex
	fileSystem

	screen     tcell.Screen
	backBuffer []byte
	background tcell.Color
	title      string

	keyboardHandler func(KeyEvent)
}

var tcellPlatformInstance tcellPlatform

func tcellStart(mainLoop func(Platform), configs ...Config) {
	if err := applyConfigs(&tcellPlatformInstance, configs); err != nil {
		log.Fatal(err)
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	var err error
	if tcellPlatformInstance.screen, err = tcell.NewScreen(); err != nil {
		log.Fatal(err)
	}

	Instance = &tcellPlatformInstance
	s := tcellPlatformInstance.screen

	if err = s.Init(); err != nil {
		log.Fatal(err)
	}
	defer s.Fini()

	// The terminal is our screen now.
	log.SetOutput(ioutil.Discard)

	s.HideCursor()
	s.DisableMouse()
	s.Clear()

	if err := tcellPlatformInstance.initializeTcellEvents(); err != nil {
		log.Fatal(err)
	}
	mainLoop(Instance)
}

func (p *tcellPlatform) HasAudio() bool {
	return false
}

func (p *tcellPlatform) RenderGraphics(backBuffer []byte, r, g, b byte) {
	p.Lock()
	p.backBuffer = append(p.backBuffer[:0], backBuffer...)
	p.background = tcell.NewRGBColor(int32(r), int32(g), int32(b))
	p.Unlock()
	p.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (p *tcellPlatform) SetTitle(title string) {
	p.Lock()
	p.title = title
	p.Unlock()
}

func (p *tcellPlatform) QueueAudio(soundBuffer []byte) {
}

func (p *tcellPlatform) AudioSpec() AudioSpec {
	return AudioSpec{}
}

func (p *tcellPlatform) EnableAudio(b bool) {
}

func (p *tcellPlatform) SetKeyboardHandler(h func(KeyEvent)) {
	p.Lock()
	p.keyboardHandler = h
	p.Unlock()
}
