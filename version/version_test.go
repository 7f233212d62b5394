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

package version

import "testing"

func TestParse(t *testing.T) {
	for s, expected := range map[string]string{
		"0.1.0":     "0.1.0",
		"1.2.3.0":   "1.2.3",
		"1.2.3.rc1": "1.2.3-rc1",
	} {
		v, err := Parse(s)
		if err != nil {
			t.Fatal(err)
		}
		if v.FullString() != expected {
			t.Errorf("Invalid version! (Got %s but expected %s)", v.FullString(), expected)
		}
	}

	for _, s := range []string{"", "1.2", "1.x.3", "256.0.0"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("version %q was accepted", s)
		}
	}

	if !New(1, 2, 3).Compatible(New(1, 2, 9)) || New(1, 2, 3).Compatible(New(1, 3, 3)) {
		t.Error("invalid compatibility")
	}
}
