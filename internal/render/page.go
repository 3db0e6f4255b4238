// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package render

import (
	"maps"
	"slices"
	"sync"

	"github.com/wneessen/weather-widget/internal/presenter"
)

// Page is an in-memory Target. Every text region starts out with the placeholder. It is
// safe for concurrent use.
type Page struct {
	mu       sync.RWMutex
	texts    map[Region]string
	images   map[Region]string
	children map[Region][]Element
}

// Snapshot is a point in time copy of a Page, used by the exporters.
type Snapshot struct {
	Texts    map[Region]string
	Images   map[Region]string
	Children map[Region][]Element
}

func NewPage() *Page {
	page := &Page{
		texts:    make(map[Region]string, len(TextRegions)),
		images:   make(map[Region]string),
		children: make(map[Region][]Element),
	}
	for _, region := range TextRegions {
		page.texts[region] = presenter.Placeholder
	}
	return page
}

func (p *Page) SetText(region Region, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts[region] = text
}

func (p *Page) SetImage(region Region, ref string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.images[region] = ref
}

func (p *Page) ClearChildren(region Region) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.children, region)
}

func (p *Page) AppendChild(region Region, child Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	child.Cells = slices.Clone(child.Cells)
	p.children[region] = append(p.children[region], child)
}

// Text returns the text of the region or the placeholder if it was never set.
func (p *Page) Text(region Region) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if text, ok := p.texts[region]; ok {
		return text
	}
	return presenter.Placeholder
}

func (p *Page) Image(region Region) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.images[region]
}

func (p *Page) Children(region Region) []Element {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneElements(p.children[region])
}

// Regions returns every region that holds content, sorted by name.
func (p *Page) Regions() []Region {
	p.mu.RLock()
	defer p.mu.RUnlock()
	regions := slices.Collect(maps.Keys(p.texts))
	for region := range p.images {
		if !slices.Contains(regions, region) {
			regions = append(regions, region)
		}
	}
	for region := range p.children {
		if !slices.Contains(regions, region) {
			regions = append(regions, region)
		}
	}
	slices.Sort(regions)
	return regions
}

func (p *Page) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap := Snapshot{
		Texts:    maps.Clone(p.texts),
		Images:   maps.Clone(p.images),
		Children: make(map[Region][]Element, len(p.children)),
	}
	for region, children := range p.children {
		snap.Children[region] = cloneElements(children)
	}
	return snap
}

// Text returns the text of the region in the snapshot or the placeholder.
func (s Snapshot) Text(region Region) string {
	if text, ok := s.Texts[region]; ok {
		return text
	}
	return presenter.Placeholder
}

func cloneElements(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	list := make([]Element, len(elements))
	for i, e := range elements {
		list[i] = Element{Class: e.Class, Cells: slices.Clone(e.Cells)}
	}
	return list
}
