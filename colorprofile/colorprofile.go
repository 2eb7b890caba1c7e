// Package colorprofile selects a (color mode, dataspace, render intent)
// triple for an output once per frame, given the refresh args' requested
// color-management setting and the gamut/HDR mix of the layers currently
// on that output.
package colorprofile

import "github.com/gogpu/compose/layer"

// ColorSetting is the color-management mode requested for a frame.
type ColorSetting int

const (
	Unmanaged ColorSetting = iota
	Managed
	Enhanced
	// VendorIntent is the first of the vendor-specific color settings.
	// Any ColorSetting >= VendorIntent carries a vendor-defined integer
	// that intentFor passes through to RenderIntent unchanged rather than
	// collapsing it into a single value.
	VendorIntent
)

// ColorMode is the display's active color mode.
type ColorMode int

const (
	ColorModeNative ColorMode = iota
	ColorModeSRGB
	ColorModeDisplayP3
	ColorModeDisplayBT2020
)

// RenderIntent selects how out-of-gamut colors are mapped.
type RenderIntent int

const (
	RenderIntentColorimetric RenderIntent = iota
	RenderIntentEnhance
	RenderIntentToneMapColorimetric
	RenderIntentToneMapEnhance
	// RenderIntentVendor is the first of the vendor-specific render
	// intents. A vendor ColorSetting passes through as
	// RenderIntentVendor + (setting - VendorIntent), so the original
	// vendor integer is always recoverable from the resolved intent.
	RenderIntentVendor
)

// Profile is the resolved (color mode, dataspace, render intent) for one
// frame.
type Profile struct {
	Mode      ColorMode
	Dataspace layer.Dataspace
	Intent    RenderIntent
}

// colorSpaceAgnostic is the dataspace used for the Unmanaged fast path:
// the output accepts whatever dataspace the client target already has.
const colorSpaceAgnostic = layer.DataspaceUnknown

// unmanagedProfile returns the fixed profile used when color management is off.
func unmanagedProfile() Profile {
	return Profile{Mode: ColorModeNative, Dataspace: colorSpaceAgnostic, Intent: RenderIntentColorimetric}
}

// DisplayColorProfile is the external collaborator that knows which
// (colorMode, dataspace, renderIntent) a display can actually produce, and
// whether it has legacy (non-client-composited) support for a given HDR
// dataspace ("display color profile").
type DisplayColorProfile interface {
	// Resolve picks the best available (colorMode, dataspace, intent)
	// for the given candidate dataspace and intent.
	Resolve(dataspace layer.Dataspace, intent RenderIntent) (ColorMode, layer.Dataspace, RenderIntent)

	// HasLegacyHDRSupport reports whether the display can present the
	// given HDR dataspace without client composition.
	HasLegacyHDRSupport(dataspace layer.Dataspace) bool
}

// LayerGamut is the minimal per-layer state the selector needs: its
// dataspace and whether it's presently in client composition.
type LayerGamut struct {
	Dataspace         layer.Dataspace
	InClientComposition bool
}

// Select. forceOutputColorMode, when non-nil,
// overrides the best dataspace derived from the layer mix.
func Select(setting ColorSetting, layers []LayerGamut, profile DisplayColorProfile, forceOutputColorMode *layer.Dataspace) Profile {
	if setting == Unmanaged {
		return unmanagedProfile()
	}

	best := layer.DataspaceSRGB
	var hdrDataspace layer.Dataspace
	hasHDR := false
	hdrForcesClient := false

	for _, l := range layers {
		switch l.Dataspace {
		case layer.DataspaceDisplayBT2020, layer.DataspaceBT2020PQ, layer.DataspaceBT2020HLG:
			best = layer.DataspaceDisplayBT2020
		case layer.DataspaceDisplayP3:
			if best != layer.DataspaceDisplayBT2020 {
				best = layer.DataspaceDisplayP3
			}
		}
		if l.Dataspace.IsHDR() {
			if !hasHDR || (hdrDataspace == layer.DataspaceBT2020HLG && l.Dataspace == layer.DataspaceBT2020PQ) {
				hdrDataspace = l.Dataspace
			}
			hasHDR = true
			if l.InClientComposition {
				hdrForcesClient = true
			}
		}
	}

	if forceOutputColorMode != nil {
		best = *forceOutputColorMode
	}

	if hasHDR && !profile.HasLegacyHDRSupport(hdrDataspace) && !hdrForcesClient {
		best = hdrDataspace
	}

	intent := intentFor(setting, hasHDR)

	mode, dataspace, resolvedIntent := profile.Resolve(best, intent)
	return Profile{Mode: mode, Dataspace: dataspace, Intent: resolvedIntent}
}

func intentFor(setting ColorSetting, hdr bool) RenderIntent {
	switch setting {
	case Managed:
		if hdr {
			return RenderIntentToneMapColorimetric
		}
		return RenderIntentColorimetric
	case Enhanced:
		if hdr {
			return RenderIntentToneMapEnhance
		}
		return RenderIntentEnhance
	default:
		// setting is vendor-specific (§4.4 step 5: "vendor ints pass
		// through"): carry its integer through unchanged instead of
		// collapsing every vendor value into one sentinel.
		return RenderIntentVendor + RenderIntent(setting-VendorIntent)
	}
}
