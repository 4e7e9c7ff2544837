// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package group classifies files into semantic groups by their extension.
package group

import (
	"fmt"
	"path"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Group is a semantic file category such as text or image
type Group string

const (
	Text   Group = "text"
	Style  Group = "style"
	Image  Group = "image"
	Font   Group = "font"
	Script Group = "script"
	Audio  Group = "audio"
	Video  Group = "video"
)

// ErrUnknownGroup is the base of every UnknownGroupError.
var ErrUnknownGroup = errors.Base("unknown group")

// 🚫 UnknownGroupError reports a group name that is not registered
type UnknownGroupError struct {
	Group Group
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown group %q (known groups: %s)", string(e.Group), strings.Join(names(), ", "))
}

func (e *UnknownGroupError) Unwrap() error {
	return ErrUnknownGroup
}

// order is the registration order, used wherever output must be deterministic.
var order = []Group{Text, Style, Image, Font, Script, Audio, Video}

var extensions = map[Group][]string{
	Text:   {".xhtml", ".html", ".bade", ".rxhtml"},
	Style:  {".css", ".styl"},
	Image:  {".png", ".jpg", ".jpeg", ".gif", ".svg"},
	Font:   {".otf", ".ttf", ".woff", ".woff2"},
	Script: {".js"},
	Audio:  {".mp3", ".m4a"},
	Video:  {".mp4", ".m4v"},
}

var byExtension = func() map[string]Group {
	m := make(map[string]Group)
	for _, g := range order {
		for _, ext := range extensions[g] {
			m[ext] = g
		}
	}
	return m
}()

// All returns every registered group in registration order.
func All() []Group {
	return append([]Group(nil), order...)
}

func names() []string {
	out := make([]string, len(order))
	for i, g := range order {
		out[i] = string(g)
	}
	return out
}

// 🔍 Parse converts a group name into a Group, accepting an optional leading colon
func Parse(name string) (Group, error) {
	g := Group(strings.TrimPrefix(strings.TrimSpace(name), ":"))
	if err := g.Validate(); err != nil {
		return "", err
	}
	return g, nil
}

// Validate returns an *UnknownGroupError when g is not registered.
func (g Group) Validate() error {
	if _, ok := extensions[g]; !ok {
		return &UnknownGroupError{Group: g}
	}
	return nil
}

func (g Group) String() string {
	return string(g)
}

// 🎯 For returns the group an extension belongs to
//
// The extension is matched case-insensitively and the leading dot is optional.
func For(ext string) (Group, bool) {
	g, ok := byExtension[normalizeExt(ext)]
	return g, ok
}

// ForPath returns the group of the file at p, based on its extension.
func ForPath(p string) (Group, bool) {
	return For(path.Ext(p))
}

// 📋 Extensions returns the extensions of the given groups, in registration order
//
// With no groups it returns every recognized extension.
func Extensions(groups ...Group) ([]string, error) {
	if len(groups) == 0 {
		return RecognizedExtensions(), nil
	}
	want := make(map[Group]bool, len(groups))
	for _, g := range groups {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		want[g] = true
	}
	var out []string
	for _, g := range order {
		if want[g] {
			out = append(out, extensions[g]...)
		}
	}
	return out, nil
}

// RecognizedExtensions returns every extension known to any group.
func RecognizedExtensions() []string {
	var out []string
	for _, g := range order {
		out = append(out, extensions[g]...)
	}
	return out
}

// 🧹 Filter keeps the paths whose extension belongs to one of groups
//
// Without groups the input slice itself is returned. Unknown groups fail fast
// with an *UnknownGroupError instead of producing an empty result.
func Filter(paths []string, groups ...Group) ([]string, error) {
	if len(groups) == 0 {
		return paths, nil
	}
	want := make(map[Group]bool, len(groups))
	for _, g := range groups {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		want[g] = true
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if g, ok := ForPath(p); ok && want[g] {
			out = append(out, p)
		}
	}
	return out, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
