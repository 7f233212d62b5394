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
	"log"
	"os"
	"strings"
	"time"

	"github.com/andreas-jonsson/virtualc8/platform/dialog"
	"github.com/gdamore/tcell"
)

// Terminals do not report key releases so one is sent after this delay.
const keyReleaseDelay = 150 * time.Millisecond

func (p *tcellPlatform) initializeTcellEvents() error {
	releaseTimers := make(map[string]*time.Timer)

	go func() {
		s := p.screen
		for {
			switch ev := s.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyEscape, tcell.KeyCtrlC:
					dialog.Quit()
					go func() {
						time.Sleep(3 * time.Second)
						os.Exit(-1)
					}()
					return
				case tcell.KeyF5:
					dialog.Restart()
					continue
				}

				name := keyNameFromTCELL(ev)
				if name == "" {
					log.Print("Unknown key!")
					continue
				}
				p.pushKeyEvent(KeyEvent{Name: name})

				if t, ok := releaseTimers[name]; ok && t.Stop() {
					t.Reset(keyReleaseDelay)
				} else {
					releaseTimers[name] = time.AfterFunc(keyReleaseDelay, func() {
						p.pushKeyEvent(KeyEvent{Name: name, Up: true})
					})
				}
			case *tcell.EventResize:
				s.Sync()
			case *tcell.EventInterrupt:
				p.drawFrame()
			}
		}
	}()
	return nil
}

func (p *tcellPlatform) pushKeyEvent(ev KeyEvent) {
	p.Lock()
	h := p.keyboardHandler
	p.Unlock()

	if h != nil {
		h(ev)
	}
}

// drawFrame packs two pixel rows into every terminal row using upper half blocks.
func (p *tcellPlatform) drawFrame() {
	p.Lock()
	defer p.Unlock()

	if len(p.backBuffer) != ScreenWidth*ScreenHeight*4 {
		return
	}

	s := p.screen
	for y := 0; y < ScreenHeight; y += 2 {
		for x := 0; x < ScreenWidth; x++ {
			style := tcell.StyleDefault.Foreground(p.pixelColor(x, y)).Background(p.pixelColor(x, y+1))
			s.SetContent(x, y/2, '▀', nil, style)
		}
	}

	title := []rune(p.title)
	for x := 0; x < ScreenWidth; x++ {
		ch := ' '
		if x < len(title) {
			ch = title[x]
		}
		s.SetContent(x, ScreenHeight/2, ch, nil, tcell.StyleDefault)
	}
	s.Show()
}

func (p *tcellPlatform) pixelColor(x, y int) tcell.Color {
	offset := (y*ScreenWidth + x) * 4
	pix := p.backBuffer[offset : offset+3]
	return tcell.NewRGBColor(int32(pix[0]), int32(pix[1]), int32(pix[2]))
}

func keyNameFromTCELL(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		if r := ev.Rune(); r > 0x20 && r < 0x7F {
			return strings.ToLower(string(r))
		}
		if ev.Rune() == ' ' {
			return "space"
		}
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyEnter:
		return "return"
	}
	return ""
}
