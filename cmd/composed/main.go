// Command composed demonstrates one composition frame on a virtual
// output, end to end: a software render engine, an in-memory render
// surface, two application layers, and no hardware composer (so
// composition is entirely client-side).
package main

import (
	"flag"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/frame"
	"github.com/gogpu/compose/layer"
	"github.com/gogpu/compose/output"
	"github.com/gogpu/compose/region"
	"github.com/gogpu/compose/renderengine"
	"github.com/gogpu/compose/rendersurface"
	"github.com/gogpu/compose/visibility"
)

func main() {
	var (
		width   = flag.Int("width", 320, "output width")
		height  = flag.Int("height", 240, "output height")
		outFile = flag.String("output", "composed.png", "output PNG file")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		compose.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	out := output.New(output.VirtualDisplayID, "virtual-demo", true)
	out.State.IsEnabled = true
	out.State.Bounds = region.Rectangle(0, 0, *width, *height)
	out.State.Viewport = out.State.Bounds
	out.State.Scissor = out.State.Bounds
	out.State.Transform = region.Identity()
	out.State.LayerStackID = 1

	surface, err := rendersurface.NewImageSurface(*width, *height)
	if err != nil {
		log.Fatalf("creating render surface: %v", err)
	}
	out.Surface = surface

	background := newSolidLayer(1, region.Rectangle(0, 0, *width, *height), [3]float32{0.05, 0.05, 0.1}, true)
	foreground := newSolidLayer(2, region.Rectangle(*width/4, *height/4, 3**width/4, 3**height/4), [3]float32{0.8, 0.2, 0.2}, true)

	inputs := []visibility.InputLayer{
		{FrontEnd: background, State: layer.FrontEndState{IsVisible: true, LayerStackID: 1}},
		{FrontEnd: foreground, State: layer.FrontEndState{IsVisible: true, LayerStackID: 1}},
	}

	latch := visibility.NewLatchTracker()
	visibility.Pass(out, inputs, latch)

	d := &frame.Driver{
		Surface: surface,
		Engine:  renderengine.NewSoftwareEngine(),
	}

	d.UpdateAndWriteCompositionState(out)
	d.BeginFrame(out)
	d.PrepareFrame(out)

	states := map[layer.ID]layer.FrontEndState{
		background.ID(): background.State,
		foreground.ID(): foreground.State,
	}
	frontEnds := map[layer.ID]layer.FrontEnd{
		background.ID(): background,
		foreground.ID(): foreground,
	}
	d.FinishFrame(out, frame.RefreshArgs{}, states, frontEnds)
	d.PostFramebuffer(out, nil)

	img := surface.(*rendersurface.ImageSurface).Snapshot()
	if err := savePNG(*outFile, img); err != nil {
		log.Fatalf("saving %s: %v", *outFile, err)
	}
	log.Printf("composed frame saved to %s (%dx%d, %d output-layers)\n", *outFile, *width, *height, len(out.Layers))
}

// newSolidLayer returns a Fake front end that draws a flat color over
// bounds and requires client composition.
func newSolidLayer(id layer.ID, bounds region.Rect, rgb [3]float32, opaque bool) *layer.Fake {
	fe := layer.NewFake(id)
	fe.State.ID = id
	fe.State.Bounds = bounds
	fe.State.Transform = region.Identity()
	fe.State.LayerStackID = 1
	fe.State.IsOpaque = opaque
	fe.State.IsVisible = true
	fe.State.ContentDirty = true
	fe.HasDraw = true
	solid := rgb
	fe.Draw = layer.DrawSpec{Alpha: 1, SolidColor: &solid}
	return fe
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
