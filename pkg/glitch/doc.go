// Package glitch renders "corrupted signal" identity frames.
//
// A frame is produced by six stages run in order on one square RGBA buffer:
//
//  1. Prepare: center-crop and scale the source image, or draw a fallback
//     (rules for undecodable bytes, "NO SIGNAL" for no bytes)
//  2. Contrast: collapse to contrast-boosted luma
//  3. Shift: rebuild RGB from luma with red and blue offset horizontally
//  4. DarkenScanlines: dim every fourth row
//  5. Corrupt: tear random horizontal bands sideways
//  6. Overlay: print the identity and a frame caption
//
// Stages 1 and 6 draw through a [surface.Surface]; stages 2–5 work on bytes.
// Randomness comes only from the [RandomSource] passed in, so a fixed seed
// and timestamp reproduce a frame byte for byte.
//
// # Rounding
//
// Luma and scanline values are clamped to [0, 255] and rounded half to even,
// matching byte-clamped array stores. This is part of the output contract.
//
// # Usage
//
//	out, err := glitch.Render(glitch.DefaultConfig(), surface.NewGG, glitch.Input{
//	    Source:   avatarBytes,
//	    Identity: "neo",
//	    Rand:     glitch.NewRandom(42),
//	})
//	if err != nil {
//	    return err // only when no drawing surface is available
//	}
//	img := out.Buffer.RGBA()
package glitch
