// Command typesetdemo shapes a line of text and prints its glyph records.
package main

import (
	"flag"
	"fmt"
	"log"
	"unicode/utf16"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/typeset"
)

func main() {
	var (
		text = flag.String("text", "Hello, efficient waffles!", "text to shape")
		size = flag.Float64("size", 16, "font size in pixels")
	)
	flag.Parse()

	cache := typeset.NewFontCache()
	defer cache.Shutdown()

	entry, err := typeset.NewFontEntry("Go Regular", goregular.TTF)
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}

	style := typeset.FontStyle{Size: *size}
	group, err := typeset.NewFontGroup(cache, style, entry)
	if err != nil {
		log.Fatalf("Failed to create font group: %v", err)
	}

	const appUnitsPerDevUnit = 60
	units := utf16.Encode([]rune(*text))
	var flags typeset.ShapeFlags
	if typeset.DirectionOf(units) == typeset.DirectionRTL {
		flags |= typeset.FlagTextIsRTL
	}
	run, err := group.MakeTextRun(units, &typeset.TextRunParams{
		AppUnitsPerDevUnit: appUnitsPerDevUnit,
		Flags:              flags,
	})
	if err != nil {
		log.Fatalf("Failed to shape text: %v", err)
	}
	defer run.Release()

	fmt.Printf("%q shaped with %s at %.1fpx\n\n", *text, entry.Name(), *size)
	printGlyphs(run, units)

	metrics := run.MeasureText(0, run.Length(), typeset.TightInkExtents)
	fmt.Printf("\nadvance %.2fpx, ink box %.2fx%.2fpx\n",
		metrics.AdvanceWidth/appUnitsPerDevUnit,
		metrics.BoundingBox.Width()/appUnitsPerDevUnit,
		metrics.BoundingBox.Height()/appUnitsPerDevUnit)
}

func printGlyphs(run *typeset.TextRun, units []uint16) {
	glyphs := run.CharacterGlyphs()
	for i, g := range glyphs {
		ch := rune(units[i])
		switch {
		case g.IsSimpleGlyph():
			fmt.Printf("%3d %q  simple  glyph %5d  advance %4d\n",
				i, ch, g.SimpleGlyph(), g.SimpleAdvance())
		case g.IsMissing():
			fmt.Printf("%3d %q  missing\n", i, ch)
		case g.GlyphCount() == 0:
			fmt.Printf("%3d %q  continuation\n", i, ch)
		default:
			for _, d := range run.DetailedGlyphs(i) {
				fmt.Printf("%3d %q  complex glyph %5d  advance %4d  offset (%.0f, %.0f)\n",
					i, ch, d.GlyphID, d.Advance, d.XOffset, d.YOffset)
			}
		}
	}
}
