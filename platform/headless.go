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
	"sync"
)

// Headless is a platform without any window or terminal.
// It keeps the last rendered frame and lets the caller inject key events.
type Headless struct {
	fileSystem

	lock            sync.Mutex
	frame           []byte
	numFrames       int
	title           string
	audioEnabled    bool
	keyboardHandler func(KeyEvent)
}

func NewHeadless(configs ...Config) (*Headless, error) {
	p := &Headless{}
	if err := applyConfigs(p, configs); err != nil {
		return nil, err
	}
	return p, nil
}

// StartHeadless runs mainLoop on a headless platform.
func StartHeadless(mainLoop func(Platform), configs ...Config) error {
	p, err := NewHeadless(configs...)
	if err != nil {
		return err
	}
	Instance = p
	mainLoop(p)
	return nil
}

func (p *Headless) HasAudio() bool {
	return false
}

func (p *Headless) RenderGraphics(backBuffer []byte, _, _, _ byte) {
	p.lock.Lock()
	p.frame = append(p.frame[:0], backBuffer...)
	p.numFrames++
	p.lock.Unlock()
}

// Frame returns a copy of the last rendered frame and the number of frames rendered.
func (p *Headless) Frame() ([]byte, int) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]byte(nil), p.frame...), p.numFrames
}

func (p *Headless) SetTitle(title string) {
	p.lock.Lock()
	p.title = title
	p.lock.Unlock()
}

func (p *Headless) Title() string {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.title
}

func (p *Headless) QueueAudio([]byte) {
}

func (p *Headless) AudioSpec() AudioSpec {
	return AudioSpec{}
}

func (p *Headless) EnableAudio(b bool) {
	p.lock.Lock()
	p.audioEnabled = b
	p.lock.Unlock()
}

func (p *Headless) SetKeyboardHandler(h func(KeyEvent)) {
	p.lock.Lock()
	p.keyboardHandler = h
	p.lock.Unlock()
}

// SendKey delivers a key event to the installed keyboard handler.
func (p *Headless) SendKey(name string, up bool) {
	p.lock.Lock()
	h := p.keyboardHandler
	p.lock.Unlock()

	if h != nil {
		h(KeyEvent{Name: name, Up: up})
	}
}
