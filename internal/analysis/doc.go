// Package analysis looks at how a scene's brightness changes over time.
//
// A [Trace] records mean luminance once per frame. [PowerSpectrum] and
// [DominantPeriod] find the strongest repeating rhythm in such a trace,
// which for the ambient scenes is the twinkle or hue cycle:
//
//	tr := analysis.NewTrace(0)
//	runner.AddObserver(tr)
//	// ... run ...
//	p, ok := analysis.Pulse(tr.Samples(), fps)
package analysis
