// Package encode turns compiled scene timelines into media files.
//
// Every scene is sampled at the frame rate of a [Quality] preset and each
// sample is drawn with the SVG frame renderer. Depending on the [Format]
// the frames are kept as SVG, rasterised to PNG with rsvg-convert, or
// rasterised and then encoded to MP4 or GIF with ffmpeg:
//
//	enc := &encode.Encoder{MediaDir: "media", Logger: logger}
//	art, err := enc.Encode(ctx, timeline, encode.QualityMedium, encode.FormatMP4)
//
// Output is laid out per scene and preset:
//
//	media/bst/720p30/frame_00001.png
//	media/bst/720p30/bst.mp4
//
// Scenes hold still for long stretches, so identical frames are detected
// by content hash and rasterised once.
package encode
