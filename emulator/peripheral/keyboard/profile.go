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

package keyboard

import (
	"fmt"
	"sort"

	"github.com/andreas-jonsson/virtualc8/emulator/processor"
)

const DefaultProfile = "default"

// Keypad layout:
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
var keypad = [16]byte{
	0x1, 0x2, 0x3, 0xC,
	0x4, 0x5, 0x6, 0xD,
	0x7, 0x8, 0x9, 0xE,
	0xA, 0x0, 0xB, 0xF,
}

func gridProfile(keys string) map[string]byte {
	m := make(map[string]byte, len(keys))
	for i, k := range keys {
		m[string(k)] = keypad[i]
	}
	return m
}

var profiles = map[string]map[string]byte{
	DefaultProfile: func() map[string]byte {
		m := make(map[string]byte, 16)
		for i, k := range "0123456789abcdef" {
			m[string(k)] = byte(i)
		}
		return m
	}(),
	"qwerty": gridProfile("1234qwerasdfzxcv"),
	"azerty": gridProfile("1234azerqsdfwxcv"),
}

func Profiles() []string {
	var names []string
	for k := range profiles {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupProfile returns the host key to keypad mapping of a profile.
// The empty name selects the default profile.
func LookupProfile(name string) (map[string]byte, error) {
	if name == "" {
		name = DefaultProfile
	}
	if p, ok := profiles[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: unknown keyboard profile %q", processor.ErrInvalidConfiguration, name)
}
