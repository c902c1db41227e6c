/*
Package freepants is a recursive geometric virtual machine. A 1024-slot address
space holds glyphs, comma delimited sequences of base 8 addresses, which expand
recursively into turtle-graphics primitives. Every drawing primitive is issued
to a raster canvas and to an SVG document at the same time, from the same
rounded coordinates, so both renderings always agree.

The package provides a command line interface rendering glyphs to images and
managing glyph tables. To check the supported commands type:

	$ freepants --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/LafeLabs/freepants"
	)

	func main() {
		vm, err := freepants.NewVM(freepants.MustBootstrap(), freepants.DefaultConfig())
		if err != nil {
			panic(err)
		}
		if err := vm.Render("0201,0201,"); err != nil {
			fmt.Printf("Error rendering glyph: %s", err.Error())
		}
		fmt.Println(vm.SVG())
	}
*/
package freepants
