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
	"github.com/spf13/afero"
)

const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

type internalPlatform interface {
	setFileSystem(fs afero.Fs)
}

type Config func(internalPlatform) error

func ConfigWithFileSystem(fs afero.Fs) Config {
	return func(p internalPlatform) error {
		p.setFileSystem(fs)
		return nil
	}
}

type AudioSpec struct {
	Freq,
	Channels,
	Samples int
}

// KeyEvent carries the lower case name of a host key, like "q" or "1".
type KeyEvent struct {
	Name string
	Up   bool
}

type Platform interface {
	FileSystem() afero.Fs

	HasAudio() bool
	RenderGraphics(backBuffer []byte, r, g, b byte)
	SetTitle(title string)
	QueueAudio(soundBuffer []byte)
	AudioSpec() AudioSpec
	EnableAudio(b bool)
	SetKeyboardHandler(h func(KeyEvent))
}

var Instance Platform

type fileSystem struct {
	fs afero.Fs
}

func (p *fileSystem) setFileSystem(fs afero.Fs) {
	p.fs = fs
}

func (p *fileSystem) FileSystem() afero.Fs {
	if p.fs == nil {
		p.fs = afero.NewOsFs()
	}
	return p.fs
}

func applyConfigs(p internalPlatform, configs []Config) error {
	for _, cfg := range configs {
		if err := cfg(p); err != nil {
			return err
		}
	}
	return nil
}
