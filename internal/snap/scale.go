package snap

// ScaleState is the horizontal zoom of the track.
type ScaleState struct {
	ScaleX    float64
	MinScaleX float64
	MaxScaleX float64
}

// Clamp returns v limited to [MinScaleX, MaxScaleX].
func (s ScaleState) Clamp(v float64) float64 {
	return clamp(v, s.MinScaleX, s.MaxScaleX)
}

// fit recomputes MinScaleX so the whole content fits the viewport and
// pulls ScaleX back into range. MinScaleX never exceeds MaxScaleX.
func (s *ScaleState) fit(viewportWidth, contentWidth float64) {
	if viewportWidth > 0 && contentWidth > 0 {
		s.MinScaleX = viewportWidth / contentWidth
	}
	if s.MinScaleX > s.MaxScaleX {
		s.MinScaleX = s.MaxScaleX
	}
	s.ScaleX = s.Clamp(s.ScaleX)
}
