/*
Package iterm2img encodes binary payloads into iTerm2's proprietary File
escape sequence, which renders an inline image or offers a file download
when written to a supporting terminal.

A payload is raw bytes plus an optional display name. Writing it emits one
self-contained sequence:

	ESC ]1337;File=name=<b64>;size=<n>:<base64 data> BEL

Image payloads add width, height, and aspect-ratio metadata on top, with a
small unit system (cells, pixels, percent, auto) matching what iTerm2
accepts. Pixel data can come from an encoded file, a decoded image.Image,
or a dense tensor.

Basic usage:

	// Transfer a file
	esc, err := iterm2img.Open("report.pdf")
	if err != nil {
	    log.Fatal(err)
	}
	esc.Print()

	// Display an image inline, sized to 40 cells wide
	img, err := iterm2img.OpenImage("image.png")
	if err != nil {
	    log.Fatal(err)
	}
	img.Width = iterm2img.Cells(40)
	img.Print()

	// From a decoded image
	img, err = iterm2img.FromImage(decoded, iterm2img.WithSourcePath("image.png"))

	// From a pixel tensor (H, W, C)
	img, err = iterm2img.FromTensor(dense)

The package performs no terminal detection and no interactive rendering;
it only produces the wire bytes. Writers that wrap a binary sink can
implement SinkUnwrapper to be unwrapped automatically.
*/
package iterm2img
